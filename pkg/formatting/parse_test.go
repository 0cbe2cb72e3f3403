package formatting_test

import (
	"errors"
	"testing"

	"github.com/yephonekyaw/sit-cert-server/pkg/formatting"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestParseDirectJSON(t *testing.T) {
	result, err := formatting.Parse[payload](`{"name": "test", "count": 3}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if result.Name != "test" || result.Count != 3 {
		t.Errorf("got %+v", result)
	}
}

func TestParseMarkdownFence(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"json fence", "```json\n{\"name\": \"fenced\", \"count\": 1}\n```"},
		{"bare fence", "```\n{\"name\": \"fenced\", \"count\": 1}\n```"},
		{"surrounding prose", "Here is the result:\n```json\n{\"name\": \"fenced\", \"count\": 1}\n```\nDone."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := formatting.Parse[payload](tt.content)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if result.Name != "fenced" || result.Count != 1 {
				t.Errorf("got %+v", result)
			}
		})
	}
}

func TestParseFailure(t *testing.T) {
	_, err := formatting.Parse[payload]("not json at all")
	if !errors.Is(err, formatting.ErrParseFailed) {
		t.Errorf("got %v, want ErrParseFailed", err)
	}
}
