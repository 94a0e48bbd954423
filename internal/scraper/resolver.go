package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ImageCandidate is an <img> found in a post's content region.
type ImageCandidate struct {
	// URL is the absolute image URL.
	URL string
	// Width and Height are the declared attribute dimensions, zero when absent.
	Width  int
	Height int
}

// ImageFilter accepts or rejects an image candidate. Filters keep the
// UI-noise heuristics pluggable and unit-testable without touching the
// resolver's control flow.
type ImageFilter func(c ImageCandidate) bool

// IconNameFilter rejects candidates whose URL contains any of the
// given substrings (icons, logos, avatars and other UI chrome).
func IconNameFilter(patterns []string) ImageFilter {
	return func(c ImageCandidate) bool {
		lower := strings.ToLower(c.URL)
		for _, p := range patterns {
			if strings.Contains(lower, p) {
				return false
			}
		}
		return true
	}
}

// MinAreaFilter rejects candidates whose declared width*height is below
// minArea. Candidates without declared dimensions pass.
func MinAreaFilter(minArea int) ImageFilter {
	return func(c ImageCandidate) bool {
		if c.Width == 0 || c.Height == 0 {
			return true
		}
		return c.Width*c.Height >= minArea
	}
}

// contentSelectors locate the main content region of a post page, most
// specific first. Sidebar and listing regions are excluded by never
// being selected.
var contentSelectors = []string{
	"div.entry-content",
	"div.post-content",
	"div.content",
	"div.article-content",
	"article",
}

// imageSrcAttrs are the attributes that may carry the image source;
// lazy-loading themes move the real URL out of src.
var imageSrcAttrs = []string{"src", "data-src", "data-lazy-src"}

// ResolveImage locates the single qualifying report image in a post
// page: the first image inside the main content region with an
// accepted extension that passes every filter. Returns the absolute
// image URL or ErrNoImage.
func ResolveImage(html []byte, postURL string, exts []string, filters []ImageFilter) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse post HTML: %w", err)
	}

	base, err := url.Parse(postURL)
	if err != nil {
		return "", fmt.Errorf("invalid post URL %s: %w", postURL, err)
	}

	region := doc.Selection
	for _, sel := range contentSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			region = found.First()
			break
		}
	}

	var resolved string
	region.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		candidate, ok := imageCandidate(base, img)
		if !ok {
			return true
		}
		if !hasImageExtension(candidate.URL, exts) {
			return true
		}
		for _, filter := range filters {
			if !filter(candidate) {
				return true
			}
		}
		resolved = candidate.URL
		return false
	})

	if resolved == "" {
		return "", fmt.Errorf("%w: %s", ErrNoImage, postURL)
	}
	return resolved, nil
}

// imageCandidate builds a candidate from an img element, or reports
// false when no source attribute is present.
func imageCandidate(base *url.URL, img *goquery.Selection) (ImageCandidate, bool) {
	var src string
	for _, attr := range imageSrcAttrs {
		if v, exists := img.Attr(attr); exists && strings.TrimSpace(v) != "" {
			src = strings.TrimSpace(v)
			break
		}
	}
	if src == "" {
		return ImageCandidate{}, false
	}

	abs := resolveURL(base, src)
	if abs == "" {
		return ImageCandidate{}, false
	}

	return ImageCandidate{
		URL:    abs,
		Width:  attrInt(img, "width"),
		Height: attrInt(img, "height"),
	}, true
}

// attrInt parses an integer attribute, returning zero when absent or malformed.
func attrInt(sel *goquery.Selection, name string) int {
	v, exists := sel.Attr(name)
	if !exists {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// hasImageExtension reports whether the URL path ends in one of the
// accepted extensions.
func hasImageExtension(rawURL string, exts []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
