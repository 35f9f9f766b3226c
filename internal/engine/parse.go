package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeJSON parses a model response that should be a bare JSON object.
// Despite the prompt instructions, models occasionally wrap output in
// markdown fences, so fences are stripped before decoding.
func decodeJSON(content string, v any) error {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		if _, rest, ok := strings.Cut(content, "\n"); ok {
			content = rest
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	if err := json.Unmarshal([]byte(content), v); err != nil {
		return fmt.Errorf("parsing model JSON: %w", err)
	}
	return nil
}
