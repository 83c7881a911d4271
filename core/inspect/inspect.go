// Package inspect classifies unexpected HTML bodies returned where a
// binary asset was expected. The remote host answers unauthorized
// download requests with its login page at status 200, so sniffing the
// body is the only reliable signal that a session has gone stale.
package inspect

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// LoginPage reports whether body looks like the host's login or
// access-denied page. The literal markers match what the host serves
// today; the password-input probe catches a restyled page that drops
// them.
func LoginPage(body string) bool {
	if strings.Contains(body, "Login") || strings.Contains(strings.ToLower(body), "access denied") {
		return true
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return false
	}
	return doc.Find("input[type='password']").Length() > 0
}

// Excerpt renders an HTML body as readable text for log output,
// truncated to max runes. Conversion failures fall back to the raw
// body; whitespace runs are collapsed either way.
func Excerpt(body string, max int) string {
	text, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		text = body
	}
	text = strings.Join(strings.Fields(text), " ")
	if runes := []rune(text); len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return text
}
