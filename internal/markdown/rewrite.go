package markdown

import (
	"net/url"
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"
)

// RewriteLinks rewrites markdown link destinations using the provided link map.
// It parses the markdown to AST to find all link destinations, then performs
// targeted string replacements to preserve original formatting.
func RewriteLinks(src string, linkMap map[string]string) string {
	if len(linkMap) == 0 {
		return src
	}

	type replacement struct {
		oldDest string
		newDest string
	}
	var replacements []replacement
	seen := make(map[string]bool)
	for _, dest := range linkDestinations(src) {
		if newDest, ok := linkMap[dest]; ok && !seen[dest] {
			seen[dest] = true
			replacements = append(replacements, replacement{dest, newDest})
		}
	}

	result := src
	for _, r := range replacements {
		result = strings.ReplaceAll(result, "]("+r.oldDest+")", "]("+r.newDest+")")
	}
	return result
}

// ResolveLinks makes the relative link destinations in src absolute, taking
// pageURL (the documentation page the text came from) as the base. Text is
// returned unchanged when pageURL is empty or not absolute.
func ResolveLinks(src, pageURL string) string {
	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return src
	}

	linkMap := make(map[string]string)
	for _, dest := range linkDestinations(src) {
		u, err := url.Parse(dest)
		if err != nil || u.IsAbs() {
			continue
		}
		linkMap[dest] = base.ResolveReference(u).String()
	}
	return RewriteLinks(src, linkMap)
}

func linkDestinations(src string) []string {
	if !strings.Contains(src, "](") {
		return nil
	}

	doc := gm.Parse([]byte(src), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))

	var dests []string
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if link, ok := node.(*ast.Link); ok {
			dests = append(dests, string(link.Destination))
		}
		return ast.GoToNext
	})
	return dests
}
