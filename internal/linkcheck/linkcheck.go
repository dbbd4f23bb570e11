// Package linkcheck verifies that internal links in an emitted site resolve
// to files inside the output tree. External links are not fetched.
package linkcheck

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// BrokenLink is one unresolvable internal reference.
type BrokenLink struct {
	Page string // output-relative page containing the link
	Href string // the raw href/src value
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s: broken link %q", b.Page, b.Href)
}

// Check walks every .html file under siteDir and returns the internal links
// that do not resolve. A nil slice means the site is internally consistent.
func Check(siteDir string) ([]BrokenLink, error) {
	var broken []BrokenLink

	err := filepath.WalkDir(siteDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}

		rel, err := filepath.Rel(siteDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		refs, err := extractRefs(p)
		if err != nil {
			return fmt.Errorf("parse %s: %w", rel, err)
		}

		for _, ref := range refs {
			if !resolves(siteDir, rel, ref) {
				broken = append(broken, BrokenLink{Page: rel, Href: ref})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return broken, nil
}

// extractRefs parses one HTML file and collects href/src attribute values.
func extractRefs(file string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, err
	}

	var refs []string
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key == "href" || attr.Key == "src" {
					refs = append(refs, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	return refs, nil
}

// resolves reports whether ref, found on page, points at something inside
// the site tree. Absolute URLs, fragments and mailto links are out of scope
// and always pass.
func resolves(siteDir, page, ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") {
		return true
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return true
	}

	target := u.Path
	if strings.HasPrefix(target, "/") {
		target = strings.TrimPrefix(target, "/")
	} else {
		target = path.Join(path.Dir(page), target)
	}

	abs := filepath.Join(siteDir, filepath.FromSlash(target))
	info, err := os.Stat(abs)
	if err != nil {
		return false
	}
	// Directory links resolve through their index page.
	if info.IsDir() {
		_, err = os.Stat(filepath.Join(abs, "index.html"))
		return err == nil
	}
	return true
}
