package scanner

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// tokenEstimator wraps a tiktoken encoding for prompt size estimates.
// Estimates are advisory; the provider reports authoritative usage.
type tokenEstimator struct {
	enc *tiktoken.Tiktoken
}

// newTokenEstimator builds an estimator for model, falling back to the
// cl100k_base encoding for models tiktoken does not know.
func newTokenEstimator(model string) (*tokenEstimator, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return &tokenEstimator{enc: enc}, nil
}

func (e *tokenEstimator) Count(text string) int {
	return len(e.enc.Encode(text, nil, nil))
}
