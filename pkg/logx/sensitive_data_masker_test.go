package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"deal_scout/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	masker := logx.NewSensitiveDataMasker()

	testCases := []struct {
		name   string
		input  []byte
		output []byte
	}{
		{
			name:   "Password",
			input:  []byte(`{"hello":"world","password":"abc123"}`),
			output: []byte(`{"hello":"world","password":"[MASKED]"}`),
		},
		{
			name:   "Bearer token",
			input:  []byte("POST /v1/chat/completions HTTP/1.1\r\nAuthorization: Bearer sk-abc\r\n"),
			output: []byte("POST /v1/chat/completions HTTP/1.1\r\nAuthorization: Bearer [MASKED]\r\n"),
		},
		{
			name:   "Gemini key header",
			input:  []byte("X-Goog-Api-Key: AIzaSyXXX\r\n"),
			output: []byte("X-Goog-Api-Key: [MASKED]\r\n"),
		},
		{
			name:   "Bot token in path",
			input:  []byte("POST /bot123456:AAH-abc_def/sendMessage HTTP/1.1"),
			output: []byte("POST /bot[MASKED]/sendMessage HTTP/1.1"),
		},
		{
			name:   "Api key and email",
			input:  []byte(`{"apiKey": "k-1", "email": "ops@example.com", "price": 10}`),
			output: []byte(`{"apiKey": "[MASKED]", "email": "[MASKED]", "price": 10}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			output := masker.Mask(tc.input)

			rq.Equal(string(tc.output), string(output))
		})
	}
}
