// Package content resolves inspiration text and converts stored HTML into
// the subset Telegram accepts.
package content

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	htmlnode "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"morning_bot/internal/model"
)

// Tags Telegram's HTML parse mode accepts. Everything else is unwrapped to
// its text content.
var allowedTags = map[atom.Atom]string{
	atom.B:          "b",
	atom.Strong:     "b",
	atom.I:          "i",
	atom.Em:         "i",
	atom.U:          "u",
	atom.S:          "s",
	atom.Strike:     "s",
	atom.Del:        "s",
	atom.Code:       "code",
	atom.Pre:        "pre",
	atom.Blockquote: "blockquote",
}

var blockTags = map[atom.Atom]bool{
	atom.P:   true,
	atom.Div: true,
	atom.H1:  true,
	atom.H2:  true,
	atom.H3:  true,
	atom.H4:  true,
	atom.H5:  true,
	atom.H6:  true,
	atom.Li:  true,
}

// RichToPlain converts stored HTML content into Telegram-safe HTML text.
// It returns an empty string when the input cannot be parsed or yields no
// visible text; callers treat that as "no rich content" and fall back.
func RichToPlain(rich string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rich))
	if err != nil {
		return ""
	}

	var b strings.Builder
	body := doc.Find("body")
	if body.Length() == 0 {
		return ""
	}
	for _, node := range body.Nodes {
		renderNode(&b, node)
	}

	out := collapseBlankLines(strings.TrimSpace(b.String()))
	if StripTags(out) == "" {
		return ""
	}
	return out
}

func renderNode(b *strings.Builder, n *htmlnode.Node) {
	switch n.Type {
	case htmlnode.TextNode:
		b.WriteString(html.EscapeString(n.Data))
		return
	case htmlnode.ElementNode:
		if n.DataAtom == atom.Br {
			b.WriteString("\n")
			return
		}
		tag, keep := allowedTags[n.DataAtom]
		if keep {
			b.WriteString("<" + tag + ">")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderNode(b, c)
		}
		if keep {
			b.WriteString("</" + tag + ">")
		}
		if blockTags[n.DataAtom] {
			b.WriteString("\n\n")
		}
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderNode(b, c)
		}
	}
}

var (
	tagRe       = regexp.MustCompile(`<[^<>]+?>`)
	blankLineRe = regexp.MustCompile(`\n{3,}`)
)

// StripTags removes all markup from a message, for the plain-text retry
// after Telegram rejects the formatted version.
func StripTags(s string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(s, ""))
}

func collapseBlankLines(s string) string {
	return blankLineRe.ReplaceAllString(s, "\n\n")
}

// ResolveDelivery picks the text for the scheduled-delivery path. Rich
// content is authoritative when present, even if its language differs from
// the requested one; then the translation for lang; then the original text.
// An empty result means the inspiration has no usable content.
func ResolveDelivery(insp *model.Inspiration, lang string) string {
	if insp.HTMLContent != "" {
		if converted := RichToPlain(insp.HTMLContent); strings.TrimSpace(converted) != "" {
			return converted
		}
	}
	if text := strings.TrimSpace(insp.Translation(lang)); text != "" {
		return text
	}
	return strings.TrimSpace(insp.OriginalText)
}

// ResolveBrowse picks the text for the interactive browsing path (/random).
// Unlike ResolveDelivery, rich content is used only when the book's language
// matches the user's; otherwise the translation or original text is shown.
func ResolveBrowse(insp *model.Inspiration, bookLang, userLang string) string {
	if insp.HTMLContent != "" && bookLang == userLang {
		if converted := RichToPlain(insp.HTMLContent); strings.TrimSpace(converted) != "" {
			return converted
		}
	}
	if text := strings.TrimSpace(insp.Translation(userLang)); text != "" {
		return text
	}
	return strings.TrimSpace(insp.OriginalText)
}
