package jsonrepair

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced json block",
			in:   "Here is the plan:\n```json\n{\"a\": 1}\n```\nEnjoy!",
			want: `{"a": 1}`,
		},
		{
			name: "fenced block without tag",
			in:   "```\n{\"a\":{\"b\":2}}\n```",
			want: `{"a":{"b":2}}`,
		},
		{
			name: "upper case tag",
			in:   "```JSON {\"ok\": true} ```",
			want: `{"ok": true}`,
		},
		{
			name: "fence inside a string value",
			in:   "```json\n{\"code\": \"```\"}\n```",
			want: "{\"code\": \"```\"}",
		},
		{
			name: "other language fence is skipped",
			in:   "```python\nprint(1)\n```\nthen {\"a\":1} done",
			want: `{"a":1}`,
		},
		{
			name: "balanced span with braces and escaped quotes in strings",
			in:   `Sure! {"title": "use \"{\" and }", "n": {"x": 1}} trailing {junk}`,
			want: `{"title": "use \"{\" and }", "n": {"x": 1}}`,
		},
		{
			name: "unclosed object falls back to last brace",
			in:   `start {"a": {"b": 1} and nothing more`,
			want: `{"a": {"b": 1}`,
		},
		{
			name: "open brace without any close",
			in:   `x {"a": 1`,
			want: `x {"a": 1`,
		},
		{
			name: "no structure at all",
			in:   "I cannot help with that.",
			want: "I cannot help with that.",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.in))
		})
	}
}

func TestMatchingBrace(t *testing.T) {
	s := `{"a": "}", "b": {"c": "\\"}}`
	assert.Equal(t, len(s)-1, MatchingBrace(s, 0))
	assert.Equal(t, -1, MatchingBrace(`{"a": 1`, 0))
	assert.Equal(t, -1, MatchingBrace(`abc`, 0))
	assert.Equal(t, -1, MatchingBrace(`{}`, 5))
}
