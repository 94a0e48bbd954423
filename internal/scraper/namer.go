package scraper

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// idPrefix prefixes every canonical identifier.
	idPrefix = "ppi-"

	// maxSlugLen bounds fallback slug identifiers.
	maxSlugLen = 50

	// idDateLayout is the DD-MM-YYYY date inside dated identifiers.
	idDateLayout = "02-01-2006"

	// monthDirLayout is the MM-YYYY monthly folder format.
	monthDirLayout = "01-2006"
)

// postDatePattern matches the ppi-DD-MM-YYYY slug the report site puts
// in post URLs.
var postDatePattern = regexp.MustCompile(`ppi-(\d{2})-(\d{2})-(\d{4})`)

// slugSkipSegments are path segments never usable as a post slug.
var slugSkipSegments = map[string]struct{}{
	"www": {}, "ppi": {}, "categoria": {}, "category": {},
}

// pageExtPattern strips common web page extensions from slug segments.
var pageExtPattern = regexp.MustCompile(`\.(html|php|asp|jsp)$`)

// unsafeSlugChars collapses anything not filesystem-safe in a slug.
var unsafeSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)

// Name derives the canonical artifact identifier for a post. The same
// input always yields the same identifier, so re-runs collapse onto
// the same artifact. A valid ppi-DD-MM-YYYY date in the URL or title
// wins; otherwise the last meaningful path segment becomes a
// sanitized slug.
func Name(postURL, title string) string {
	for _, source := range []string{postURL, title} {
		if m := postDatePattern.FindStringSubmatch(source); m != nil {
			date := m[1] + "-" + m[2] + "-" + m[3]
			if _, err := time.Parse(idDateLayout, date); err == nil {
				return idPrefix + date
			}
		}
	}
	return slugName(postURL)
}

// slugName builds the fallback identifier from the post URL path.
func slugName(postURL string) string {
	segments := pathSegments(postURL)
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if _, skip := slugSkipSegments[seg]; skip || seg == "" {
			continue
		}
		seg = pageExtPattern.ReplaceAllString(seg, "")
		seg = sanitizeSlug(seg)
		if seg == "" {
			continue
		}
		if len(seg) > maxSlugLen {
			seg = seg[:maxSlugLen]
		}
		if strings.HasPrefix(seg, idPrefix) {
			return seg
		}
		return idPrefix + seg
	}
	return idPrefix + "sem-data"
}

// pathSegments splits the URL path, tolerating unparseable URLs.
func pathSegments(rawURL string) []string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	return strings.Split(strings.Trim(p, "/"), "/")
}

// sanitizeSlug lowercases and strips filesystem-unsafe characters.
func sanitizeSlug(s string) string {
	s = strings.ToLower(s)
	s = unsafeSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// MonthDir returns the MM-YYYY folder for an identifier: the month
// encoded in a dated identifier, or the current month for slug
// identifiers.
func MonthDir(id string, now time.Time) string {
	if m := postDatePattern.FindStringSubmatch(id); m != nil {
		if _, err := time.Parse(idDateLayout, m[1]+"-"+m[2]+"-"+m[3]); err == nil {
			return m[2] + "-" + m[3]
		}
	}
	return now.Format(monthDirLayout)
}
