package markdown

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/jcdickinson/oakdoc/internal/docs"
	"golang.org/x/net/html"
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Normalizer turns javadoc inline content into the markdown dialect used by
// the chat room: **bold**, *italic*, `code`, ---strike---, [text](url).
// A Normalizer is safe for sequential reuse.
type Normalizer struct {
	converter *md.Converter
}

// NewNormalizer creates a normalizer.
func NewNormalizer() *Normalizer {
	converter := md.NewConverter("", true, &md.Options{
		EmDelimiter:      "*",
		StrongDelimiter:  "**",
		BulletListMarker: "-",
		CodeBlockStyle:   "fenced",
	})
	converter.Use(plugin.Strikethrough("---"))

	// chat has no headings
	converter.AddRules(md.Rule{
		Filter: []string{"h1", "h2", "h3", "h4", "h5", "h6"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			content = strings.TrimSpace(content)
			if content == "" {
				return md.String("")
			}
			return md.String("\n\n**" + content + "**\n\n")
		},
	})

	return &Normalizer{converter: converter}
}

// Normalize converts a comment's inline tags to chat markdown. It never
// fails: broken HTML is repaired by the parser.
func (n *Normalizer) Normalize(tags []docs.Tag) string {
	return n.Convert(FoldTags(tags))
}

// FoldTags concatenates inline tags into one HTML string. {@code} becomes a
// <code> element, {@literal} is escaped, and {@link}/{@linkplain} keep only
// their label (or the whole reference when there is no label). Anything
// else, including plain text, is passed through untouched.
func FoldTags(tags []docs.Tag) string {
	var b strings.Builder
	for _, tag := range tags {
		text := tag.Text
		switch tag.Name {
		case "@code":
			b.WriteString("<code>")
			b.WriteString(htmlEscaper.Replace(text))
			b.WriteString("</code>")
		case "@link", "@linkplain":
			// TODO emit an anchor once link targets can be resolved to URLs
			if space := strings.IndexByte(text, ' '); space >= 0 {
				text = text[space+1:]
			}
			b.WriteString(text)
		case "@literal":
			b.WriteString(htmlEscaper.Replace(text))
		default:
			b.WriteString(text)
		}
	}
	return b.String()
}

// Convert parses an HTML fragment and renders it as chat markdown.
func (n *Normalizer) Convert(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	doc := goquery.NewDocumentFromNode(root)
	return strings.TrimSpace(n.converter.Convert(doc.Find("body")))
}
