// Package refcheck finds static-asset references in HTML templates that no
// manifest entry produces and that do not exist on disk.
package refcheck

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Reference is one static asset referenced by a template.
type Reference struct {
	Tag   string // script or link
	Attr  string // src or href
	Value string // attribute value as written
	Path  string // slash-separated path below the static root
}

// urlForStatic matches Jinja's url_for('static', filename='...') helper, the
// usual way Flask templates link static files.
var urlForStatic = regexp.MustCompile(`url_for\(\s*['"]static['"]\s*,\s*filename\s*=\s*['"]([^'"]+)['"]\s*\)`)

var assetAttrs = map[string]string{
	"script": "src",
	"link":   "href",
}

// ExtractReferences parses r and returns the script and stylesheet references
// served under urlPrefix, in document order.
func ExtractReferences(r io.Reader, urlPrefix string) ([]Reference, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse template HTML: %w", err)
	}

	var refs []Reference
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := assetAttrs[n.Data]; ok {
				value := getAttr(n, attr)
				if p, ok := staticPath(value, urlPrefix); ok {
					refs = append(refs, Reference{Tag: n.Data, Attr: attr, Value: value, Path: p})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs, nil
}

// staticPath resolves an attribute value to a path below the static root.
// External URLs, other prefixes and template expressions it cannot evaluate
// are skipped.
func staticPath(value, urlPrefix string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if m := urlForStatic.FindStringSubmatch(value); m != nil {
		return cleanStatic(m[1])
	}
	if strings.Contains(value, "{{") || strings.Contains(value, "{%") {
		return "", false
	}

	u, err := url.Parse(value)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	if !strings.HasPrefix(u.Path, urlPrefix) {
		return "", false
	}
	return cleanStatic(strings.TrimPrefix(u.Path, urlPrefix))
}

func cleanStatic(p string) (string, bool) {
	p = path.Clean("/" + p)[1:]
	if p == "" {
		return "", false
	}
	return p, true
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
