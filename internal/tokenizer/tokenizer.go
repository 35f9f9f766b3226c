// Package tokenizer counts transcript tokens. It uses tiktoken's cl100k_base
// encoding when the BPE tables are available and falls back to a character
// heuristic when they are not, so counting keeps working offline.
package tokenizer

import (
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

// Tokenizer counts tokens for prompt-budget decisions.
type Tokenizer struct {
	encoder  *tiktoken.Tiktoken
	fallback bool
	mu       sync.RWMutex
}

var (
	defaultTok  *Tokenizer
	defaultOnce sync.Once
)

// Default returns the process-wide shared tokenizer.
func Default() *Tokenizer {
	defaultOnce.Do(func() {
		defaultTok = New()
	})
	return defaultTok
}

// New builds a tokenizer. If the encoding cannot be loaded, for example in
// an offline environment without a BPE cache, the heuristic is used instead.
func New() *Tokenizer {
	t := &Tokenizer{}
	enc, err := tiktoken.GetEncoding(defaultEncoding)
	if err != nil {
		t.fallback = true
		return t
	}
	t.encoder = enc
	return t
}

// Count returns the token count for text. Empty text counts as zero.
func (t *Tokenizer) Count(text string) int {
	if text == "" {
		return 0
	}
	if t.fallback {
		return heuristicCount(text)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.encoder.Encode(text, nil, nil))
}

// Precise reports whether real BPE counting is in use.
func (t *Tokenizer) Precise() bool {
	return !t.fallback
}

// heuristicCount estimates tokens from character classes: CJK characters run
// roughly 1.5 tokens each, everything else roughly 4 characters per token.
func heuristicCount(text string) int {
	cjk, other := 0, 0
	for _, r := range text {
		if isCJK(r) {
			cjk++
		} else {
			other++
		}
	}
	estimate := int(float64(cjk)*1.5 + float64(other)*0.25)
	if estimate < 1 {
		estimate = 1
	}
	return estimate
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x3000 && r <= 0x303F) ||
		(r >= 0xFF00 && r <= 0xFFEF) ||
		(r >= 0xAC00 && r <= 0xD7AF)
}
