package entity

// Item is a historical product with a known price, used as a neighbour for
// retrieval-augmented estimation.
type Item struct {
	Description string
	Price       float64
	Category    string
	Similarity  float64
}
