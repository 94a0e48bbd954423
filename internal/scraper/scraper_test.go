package scraper_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/ppicrawl/internal/config"
	"github.com/jonesrussell/ppicrawl/internal/logger"
	"github.com/jonesrussell/ppicrawl/internal/metrics"
	"github.com/jonesrussell/ppicrawl/internal/scraper"
	"github.com/jonesrussell/ppicrawl/internal/store"
)

// reportSite is a mock of the paginated report site. It records how
// many times each path was requested.
type reportSite struct {
	mu     sync.Mutex
	hits   map[string]int
	server *httptest.Server
}

func newReportSite(t *testing.T, postDates []string) *reportSite {
	t.Helper()

	site := &reportSite{hits: map[string]int{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/categoria/ppi/", func(w http.ResponseWriter, r *http.Request) {
		site.record(r.URL.Path)
		if r.URL.Path != "/categoria/ppi/" {
			// Any page/N/ path past the first page ends pagination.
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, "<html><body>")
		for _, d := range postDates {
			fmt.Fprintf(w, `<article><h2 class="entry-title"><a href="/ppi/ppi-%s/">PPI</a></h2></article>`, d)
		}
		fmt.Fprint(w, "</body></html>")
	})
	mux.HandleFunc("/ppi/", func(w http.ResponseWriter, r *http.Request) {
		site.record(r.URL.Path)
		fmt.Fprintf(w, `<html><body><div class="entry-content">
<img src="/uploads%simg.jpg" width="1200" height="800">
</div></body></html>`, r.URL.Path)
	})
	mux.HandleFunc("/uploads/", func(w http.ResponseWriter, r *http.Request) {
		site.record(r.URL.Path)
		w.Header().Set("Content-Type", "image/jpeg")
		fmt.Fprint(w, "jpeg-bytes")
	})

	site.server = httptest.NewServer(mux)
	t.Cleanup(site.server.Close)
	return site
}

func (s *reportSite) record(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits[path]++
}

func (s *reportSite) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func testScraperConfig(baseURL, outputDir string) config.ScraperConfig {
	return config.ScraperConfig{
		BaseURL:         baseURL + "/categoria/ppi/",
		StartPage:       1,
		MaxPages:        3,
		OutputDir:       outputDir,
		UserAgent:       config.DefaultUserAgent,
		RequestTimeout:  5 * time.Second,
		DownloadTimeout: 5 * time.Second,
		RetryCount:      1,
		RetryWait:       time.Millisecond,
		RetryMaxWait:    5 * time.Millisecond,
		ImageExtensions: config.DefaultImageExtensions(),
		IconPatterns:    config.DefaultIconPatterns(),
		MinImageArea:    config.DefaultMinImageArea,
	}
}

func runScrape(t *testing.T, site *reportSite, dir string) *metrics.Summary {
	t.Helper()

	cfg := testScraperConfig(site.server.URL, dir)
	st, err := store.New(dir)
	require.NoError(t, err)
	idx, err := st.Scan()
	require.NoError(t, err)

	summary := metrics.NewSummary()
	s := scraper.New(cfg, scraper.NewClient(cfg), st, idx, summary, logger.NewNoOp())
	require.NoError(t, s.Run(context.Background()))
	return summary
}

func TestScraper_DownloadsAllNewPosts(t *testing.T) {
	t.Parallel()

	site := newReportSite(t, []string{"07-04-2025", "04-04-2025"})
	dir := t.TempDir()

	summary := runScrape(t, site, dir)

	require.EqualValues(t, 2, summary.Fetched)
	require.EqualValues(t, 0, summary.SkippedDuplicates)

	st, err := store.New(dir)
	require.NoError(t, err)
	artifacts, err := st.List()
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	require.Equal(t, "ppi-04-04-2025", artifacts[0].ID)
	require.Equal(t, "04-2025", artifacts[0].MonthDir())
	require.Equal(t, "ppi-07-04-2025", artifacts[1].ID)
}

func TestScraper_SecondRunIsIdempotent(t *testing.T) {
	t.Parallel()

	site := newReportSite(t, []string{"07-04-2025", "04-04-2025"})
	dir := t.TempDir()

	first := runScrape(t, site, dir)
	require.EqualValues(t, 2, first.Fetched)

	second := runScrape(t, site, dir)
	require.EqualValues(t, 0, second.Fetched)
	require.EqualValues(t, 2, second.SkippedDuplicates)

	// The dedup check happens before any post fetch: the second run
	// must not touch the post pages or images again.
	require.Equal(t, 1, site.hitCount("/ppi/ppi-07-04-2025/"))
	require.Equal(t, 1, site.hitCount("/uploads/ppi/ppi-07-04-2025/img.jpg"))
}

func TestScraper_MixedKnownAndNewPosts(t *testing.T) {
	t.Parallel()

	site := newReportSite(t, []string{"07-04-2025", "04-04-2025"})
	dir := t.TempDir()

	// Pre-materialize one of the two artifacts.
	st, err := store.New(dir)
	require.NoError(t, err)
	require.NoError(t, st.Write(st.Path("04-2025", "ppi-04-04-2025", ".jpg"), []byte("old")))

	summary := runScrape(t, site, dir)
	require.EqualValues(t, 1, summary.Fetched)
	require.EqualValues(t, 1, summary.SkippedDuplicates)

	// Only the new post's page was fetched.
	require.Equal(t, 1, site.hitCount("/ppi/ppi-07-04-2025/"))
	require.Equal(t, 0, site.hitCount("/ppi/ppi-04-04-2025/"))

	idx, err := st.Scan()
	require.NoError(t, err)
	require.True(t, idx.Contains("ppi-04-04-2025"))
	require.True(t, idx.Contains("ppi-07-04-2025"))
}

func TestScraper_PostFailureDoesNotAbortPage(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/categoria/ppi/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categoria/ppi/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `<html><body>
<article><h2 class="entry-title"><a href="/ppi/sem-imagem/">a</a></h2></article>
<article><h2 class="entry-title"><a href="/ppi/ppi-02-05-2025/">b</a></h2></article>
</body></html>`)
	})
	mux.HandleFunc("/ppi/sem-imagem/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><div class="entry-content"><p>texto</p></div></body></html>`)
	})
	mux.HandleFunc("/ppi/ppi-02-05-2025/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><div class="entry-content">
<img src="/uploads/ppi-02-05-2025.jpg" width="1200" height="800"></div></body></html>`)
	})
	mux.HandleFunc("/uploads/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "jpeg-bytes")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := testScraperConfig(srv.URL, dir)
	st, err := store.New(dir)
	require.NoError(t, err)
	idx, err := st.Scan()
	require.NoError(t, err)

	summary := metrics.NewSummary()
	s := scraper.New(cfg, scraper.NewClient(cfg), st, idx, summary, logger.NewNoOp())
	require.NoError(t, s.Run(context.Background()))

	require.EqualValues(t, 1, summary.PostFailures)
	require.EqualValues(t, 1, summary.Fetched)
	require.True(t, idx.Contains("ppi-02-05-2025"))
}

func TestScraper_CancellationStopsCleanly(t *testing.T) {
	t.Parallel()

	site := newReportSite(t, []string{"07-04-2025", "04-04-2025"})
	dir := t.TempDir()

	cfg := testScraperConfig(site.server.URL, dir)
	st, err := store.New(dir)
	require.NoError(t, err)
	idx, err := st.Scan()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := scraper.New(cfg, scraper.NewClient(cfg), st, idx, metrics.NewSummary(), logger.NewNoOp())
	require.ErrorIs(t, s.Run(ctx), context.Canceled)

	// Nothing half-written: the store scan finds zero artifacts.
	rebuilt, err := st.Scan()
	require.NoError(t, err)
	require.Equal(t, 0, rebuilt.Len())
}
