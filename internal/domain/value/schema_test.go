package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"deal_scout/internal/domain/value"
)

func TestSchemaJSON(t *testing.T) {
	rq := require.New(t)

	five := int64(5)
	schema := &value.Schema{
		Name: "selection",
		Type: value.TypeObject,
		Properties: map[string]*value.Schema{
			"items": {
				Type:     value.TypeArray,
				MinItems: &five,
				Items: &value.Schema{
					Type: value.TypeObject,
					Properties: map[string]*value.Schema{
						"url":   {Type: value.TypeString},
						"price": {Type: value.TypeNumber, Description: "USD"},
					},
				},
			},
		},
	}

	doc := schema.JSON()
	rq.Equal(value.TypeObject, doc["type"])
	rq.Equal(false, doc["additionalProperties"])
	rq.Equal([]string{"items"}, doc["required"])

	items := doc["properties"].(map[string]any)["items"].(map[string]any)
	rq.Equal(int64(5), items["minItems"])
	rq.NotContains(items, "maxItems")

	item := items["items"].(map[string]any)
	rq.Equal([]string{"price", "url"}, item["required"])

	price := item["properties"].(map[string]any)["price"].(map[string]any)
	rq.Equal("USD", price["description"])
}

func TestSchemaPropertyNamesOrder(t *testing.T) {
	rq := require.New(t)

	schema := &value.Schema{
		Type: value.TypeObject,
		Properties: map[string]*value.Schema{
			"b": {Type: value.TypeString},
			"a": {Type: value.TypeString},
		},
		Order: []string{"b", "a"},
	}

	rq.Equal([]string{"b", "a"}, schema.PropertyNames())
}
