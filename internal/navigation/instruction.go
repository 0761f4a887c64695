package navigation

import (
	"strings"

	"golang.org/x/net/html"
)

// blockElements start a new sentence fragment when flattened to text.
var blockElements = map[string]bool{
	"br":  true,
	"div": true,
	"p":   true,
	"li":  true,
	"ul":  true,
	"ol":  true,
}

// ParseInstruction reduces a directions instruction such as
// `Turn <b>left</b> onto <b>Main St</b><div>Destination on the right</div>`
// to plain text suitable for speech.
func ParseInstruction(raw string) string {
	if raw == "" {
		return ""
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockElements[string(name)] {
				sb.WriteByte(' ')
			}
		}
	}
}
