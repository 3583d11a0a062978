package autocomplete

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionSuffix(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		fullText   string
		wantSuffix string
		wantOK     bool
	}{
		{"empty input", "", "example.com", "", false},
		{"empty fullText", "exa", "", "", false},
		{"exact match returns false", "example.com", "example.com", "", false},
		{"prefix match", "exa", "example.com", "mple.com", true},
		{"case insensitive match", "EXA", "example.com", "mple.com", true},
		{"suffix keeps original case", "git", "GitHub.com", "Hub.com", true},
		{"not a prefix", "xam", "example.com", "", false},
		{"input longer than text", "example.com/path", "example.com", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suffix, ok := CompletionSuffix(tt.input, tt.fullText)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSuffix, suffix)
		})
	}
}

func TestURLCompletion(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		url      string
		wantText string
		wantOK   bool
	}{
		{"with protocol", "https://git", "https://github.com", "https://github.com", true},
		{"without protocol", "git", "https://github.com", "github.com", true},
		{"typed www", "www.go", "https://www.golang.org", "www.golang.org", true},
		{"url has www", "gol", "https://www.golang.org", "golang.org", true},
		{"no match", "gitlab", "https://github.com", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := URLCompletion(tt.input, tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantText, c.Text)
			if ok {
				assert.Equal(t, tt.url, c.URL)
				assert.Equal(t, c.Text, tt.input+c.Suffix)
			}
		})
	}
}

func TestComplete(t *testing.T) {
	urls := []string{"https://docs.github.com/en", "https://github.com/bnema", "https://gitlab.com"}

	c, ok := Complete("git", urls)
	assert.True(t, ok)
	assert.Equal(t, "github.com/bnema", c.Text)
	assert.Equal(t, "hub.com/bnema", c.Suffix)

	_, ok = Complete("git hub", urls)
	assert.False(t, ok)

	_, ok = Complete("", urls)
	assert.False(t, ok)
}
