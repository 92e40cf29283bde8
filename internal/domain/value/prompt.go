package value

// Prompt is a single chat request to a language model.
type Prompt struct {
	System string
	User   string
	// Prefill is an assistant message the reply continues, e.g. "Price is $".
	Prefill string
	// MaxTokens and Seed are left to the provider when zero.
	MaxTokens int64
	Seed      int64
}
