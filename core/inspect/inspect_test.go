package inspect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginPage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{
			name: "login marker",
			body: `<html><head><title>Login</title></head><body>Please sign in</body></html>`,
			want: true,
		},
		{
			name: "access denied marker any case",
			body: `<html><body>Access Denied: your session has expired</body></html>`,
			want: true,
		},
		{
			name: "password form without markers",
			body: `<html><body><form><input type="password" name="pw"></form></body></html>`,
			want: true,
		},
		{
			name: "ordinary error page",
			body: `<html><body><h1>503 Service Unavailable</h1></body></html>`,
			want: false,
		},
		{
			name: "plain text",
			body: "maintenance window, come back later",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LoginPage(tt.body))
		})
	}
}

func TestExcerptStripsMarkup(t *testing.T) {
	got := Excerpt(`<html><body><h1>Session expired</h1><p>Please sign in again.</p></body></html>`, 200)
	assert.Contains(t, got, "Session expired")
	assert.Contains(t, got, "Please sign in again.")
	assert.NotContains(t, got, "<p>")
}

func TestExcerptTruncates(t *testing.T) {
	body := "<p>" + strings.Repeat("word ", 100) + "</p>"
	got := Excerpt(body, 40)
	assert.LessOrEqual(t, len([]rune(got)), 43) // 40 runes + "..."
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestExcerptCollapsesWhitespace(t *testing.T) {
	got := Excerpt("line one\n\n\t  line two", 200)
	assert.Equal(t, "line one line two", got)
}
