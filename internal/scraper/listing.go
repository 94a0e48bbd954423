package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PostRef is one post link found on a listing page, in document order.
// Document order matters: it decides the date-name fallback when a
// post URL carries no date.
type PostRef struct {
	// URL is the absolute post URL.
	URL string
}

// listingNoisePaths are path fragments of navigation links that are
// never individual posts.
var listingNoisePaths = []string{"/categoria/", "/category/", "/tag/", "/author/", "/page/"}

// ParseListing extracts post URLs from listing HTML in document order.
// It tries increasingly generic selectors, mirroring the report site's
// WordPress structure: explicit /ppi/ppi-… post links first, then
// entry-title links, then same-host anchors with navigation paths
// filtered out. Returns ErrListingMarkup when the document carries no
// recognizable listing structure at all.
func ParseListing(html []byte, pageURL string) ([]PostRef, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing HTML: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid listing URL %s: %w", pageURL, err)
	}

	if doc.Find("a[href]").Length() == 0 && doc.Find("article").Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrListingMarkup, pageURL)
	}

	seen := make(map[string]struct{})
	var refs []PostRef
	add := func(href string) {
		abs := resolveURL(base, href)
		if abs == "" {
			return
		}
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		refs = append(refs, PostRef{URL: abs})
	}

	// Post permalinks carry the ppi- date slug directly.
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if strings.Contains(href, "/ppi/ppi-") {
			add(href)
		}
	})

	if len(refs) == 0 {
		doc.Find(".entry-title a, .post-title a").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			if href != "" && !isListingNoise(href) {
				add(href)
			}
		})
	}

	if len(refs) == 0 {
		doc.Find("article a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			if href == "" || isListingNoise(href) {
				return
			}
			abs := resolveURL(base, href)
			if abs == "" || abs == pageURL {
				return
			}
			if sameHost(base, abs) {
				add(href)
			}
		})
	}

	return refs, nil
}

// isListingNoise reports whether the href is a navigation link rather
// than an individual post.
func isListingNoise(href string) bool {
	for _, p := range listingNoisePaths {
		if strings.Contains(href, p) {
			return true
		}
	}
	return false
}

// resolveURL resolves href against base, returning "" for unusable hrefs.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	abs.Fragment = ""
	return abs.String()
}

// sameHost reports whether the absolute URL shares the base host.
func sameHost(base *url.URL, abs string) bool {
	u, err := url.Parse(abs)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}
