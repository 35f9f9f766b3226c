package fixtures

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"memchat/internal/chat"
)

// Fixture is one scripted conversation: a name plus the messages to replay
// in order against a fresh session.
type Fixture struct {
	Name     string         `json:"name"`
	Messages []chat.Message `json:"messages"`
}

// Load reads fixtures from a JSONL file, one fixture per line.
func Load(path string) ([]Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening fixtures %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads fixtures from JSONL input. Malformed lines are skipped with a
// warning rather than failing the whole file; only a read error is fatal.
func Parse(r io.Reader) ([]Fixture, error) {
	var fixtures []Fixture
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var fx Fixture
		if err := json.Unmarshal([]byte(line), &fx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping invalid fixture line %d: %v\n", lineNo, err)
			continue
		}
		if fx.Name == "" {
			fx.Name = fmt.Sprintf("fixture-%d", lineNo)
		}
		fixtures = append(fixtures, fx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading fixtures: %w", err)
	}
	return fixtures, nil
}

// UserMessages returns only the user-role messages of the fixture. Replay
// feeds these to the engine one turn at a time; any assistant messages in
// the fixture are ignored.
func (f Fixture) UserMessages() []chat.Message {
	var out []chat.Message
	for _, m := range f.Messages {
		if m.Role == chat.RoleUser {
			out = append(out, m)
		}
	}
	return out
}
