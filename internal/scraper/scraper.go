// Package scraper implements the download phase: incremental crawling
// of the report listing, dedup-checked post resolution and atomic
// artifact materialization.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/jonesrussell/ppicrawl/internal/config"
	"github.com/jonesrussell/ppicrawl/internal/logger"
	"github.com/jonesrussell/ppicrawl/internal/metrics"
	"github.com/jonesrussell/ppicrawl/internal/store"
)

// defaultArtifactExt is used when an image URL carries no extension.
const defaultArtifactExt = ".jpg"

// Scraper walks the paginated listing and materializes every report
// image not yet present in the store. It runs strictly sequentially:
// the report site expects paced, serialized requests.
type Scraper struct {
	cfg     config.ScraperConfig
	client  PageClient
	store   *store.Store
	index   *store.Index
	filters []ImageFilter
	summary *metrics.Summary
	logger  logger.Interface
	now     func() time.Time
}

// New creates a scraper. The index must have been rebuilt from the
// store before the run starts.
func New(
	cfg config.ScraperConfig,
	client PageClient,
	st *store.Store,
	index *store.Index,
	summary *metrics.Summary,
	log logger.Interface,
) *Scraper {
	return &Scraper{
		cfg:    cfg,
		client: client,
		store:  st,
		index:  index,
		filters: []ImageFilter{
			IconNameFilter(cfg.IconPatterns),
			MinAreaFilter(cfg.MinImageArea),
		},
		summary: summary,
		logger:  log.WithComponent("scraper"),
		now:     time.Now,
	}
}

// Run executes the page loop. Each listing page is fetched and parsed,
// then every post on it is either skipped as a known duplicate or
// resolved, downloaded and recorded. The loop stops at the page bound,
// at the end-of-pagination signal (404 or an empty listing), or on
// context cancellation. Individual post failures never abort it.
func (s *Scraper) Run(ctx context.Context) error {
	lastPage := s.cfg.StartPage + s.cfg.MaxPages - 1

	for page := s.cfg.StartPage; page <= lastPage; page++ {
		if err := ctx.Err(); err != nil {
			s.logger.Info("scrape interrupted", "page", page)
			return err
		}

		pageURL := s.pageURL(page)
		s.logger.Info("fetching listing page", "page", page, "url", pageURL)

		body, err := s.client.GetPage(ctx, pageURL)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				s.logger.Info("listing page not found, pagination ended", "page", page)
				return nil
			}
			s.logger.Error("failed to fetch listing page, skipping", "page", page, "error", err)
			continue
		}
		s.summary.AddPageVisited()

		posts, err := ParseListing(body, pageURL)
		if err != nil {
			s.logger.Error("failed to parse listing page, skipping", "page", page, "error", err)
			continue
		}
		if len(posts) == 0 {
			s.logger.Info("empty listing page, pagination ended", "page", page)
			return nil
		}

		s.logger.Info("listing page parsed", "page", page, "posts", len(posts))

		if err := s.processPosts(ctx, posts); err != nil {
			return err
		}

		if page < lastPage {
			if err := s.pause(ctx, s.cfg.DelayBetweenPages); err != nil {
				return err
			}
		}
	}

	return nil
}

// processPosts handles every post of one listing page.
func (s *Scraper) processPosts(ctx context.Context, posts []PostRef) error {
	for i, post := range posts {
		if err := ctx.Err(); err != nil {
			return err
		}

		id := Name(post.URL, "")

		// Dedup before any network fetch of the post page: a known
		// identifier must cost zero requests.
		if s.index.Contains(id) {
			s.logger.Debug("artifact already present, skipping", "id", id, "post", post.URL)
			s.summary.AddSkippedDuplicate()
			continue
		}

		if err := s.downloadPost(ctx, post, id); err != nil {
			if ctx.Err() != nil {
				return err
			}
			s.logger.Warn("post skipped", "post", post.URL, "error", err)
			s.summary.AddPostFailure()
		}

		if i < len(posts)-1 {
			if err := s.pause(ctx, s.cfg.DelayBetweenPosts); err != nil {
				return err
			}
		}
	}
	return nil
}

// downloadPost resolves and materializes the report image of one post.
func (s *Scraper) downloadPost(ctx context.Context, post PostRef, id string) error {
	body, err := s.client.GetPage(ctx, post.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch post page: %w", err)
	}

	imageURL, err := ResolveImage(body, post.URL, s.cfg.ImageExtensions, s.filters)
	if err != nil {
		return err
	}

	// A dated image URL is more reliable than the post URL; prefer it
	// when the post URL yielded only a slug.
	if better := Name(imageURL, ""); postDatePattern.MatchString(better) {
		if !postDatePattern.MatchString(id) {
			id = better
		}
		if s.index.Contains(id) {
			s.summary.AddSkippedDuplicate()
			return nil
		}
	}

	data, err := s.client.Download(ctx, imageURL)
	if err != nil {
		return fmt.Errorf("failed to download image %s: %w", imageURL, err)
	}

	dest := s.store.Path(MonthDir(id, s.now()), id, imageExt(imageURL))
	if err := s.store.Write(dest, data); err != nil {
		return err
	}

	s.index.Record(id)
	s.summary.AddFetched()
	s.logger.Info("artifact materialized", "id", id, "path", dest, "bytes", len(data))
	return nil
}

// pageURL builds the listing URL for a page number. Page 1 is the bare
// base URL; later pages append page/N/.
func (s *Scraper) pageURL(page int) string {
	if page <= 1 {
		return s.cfg.BaseURL
	}
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	return fmt.Sprintf("%s/page/%d/", base, page)
}

// pause sleeps for the politeness delay, honoring cancellation.
func (s *Scraper) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// imageExt extracts the artifact extension from the image URL.
func imageExt(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return defaultArtifactExt
	}
	if ext := strings.ToLower(path.Ext(u.Path)); ext != "" {
		return ext
	}
	return defaultArtifactExt
}
