// Package goquery harvests titles and links from fetched web pages.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lawdit/lawdit"
)

// contentSelectors locate the main content area. Links found there are
// listed before navigation links.
var contentSelectors = []string{"main", "article", "[role='main']", "#content", ".content"}

// ExtractLinks returns up to max absolute http(s) links of the page in
// document order, content-area links first. Fragments are stripped,
// duplicates and links back to the page itself are dropped. A non-positive
// max means no limit.
func ExtractLinks(html, pageURL string, max int) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return nil, lawdit.Errorf(lawdit.EINVALID, "invalid page URL %q", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, lawdit.Errorf(lawdit.EINVALID, "failed to parse HTML: %v", err)
	}

	self := stripFragment(base)
	seen := map[string]bool{self: true}
	var links []string

	collect := func(_ int, sel *goquery.Selection) bool {
		if max > 0 && len(links) >= max {
			return false
		}
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		resolved := resolve(base, href)
		if resolved == "" || seen[resolved] {
			return true
		}
		seen[resolved] = true
		links = append(links, resolved)
		return true
	}

	for _, s := range contentSelectors {
		doc.Find(s).Find("a[href]").EachWithBreak(collect)
	}
	doc.Find("a[href]").EachWithBreak(collect)

	return links, nil
}

// ExtractTitle returns og:title, the <title> element or the first <h1>,
// whichever is found first.
func ExtractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	u := base.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return stripFragment(u)
}

func stripFragment(u *url.URL) string {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	return c.String()
}
