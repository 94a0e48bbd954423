package config

import "time"

// Scraper defaults.
const (
	// DefaultBaseURL is the PPI category listing of the Abicom site.
	DefaultBaseURL = "https://abicom.com.br/categoria/ppi/"

	// DefaultStartPage is the first listing page to visit.
	DefaultStartPage = 1

	// DefaultMaxPages bounds the pagination loop.
	DefaultMaxPages = 4

	// DefaultRetryCount is the number of attempts per HTTP request.
	DefaultRetryCount = 3

	// DefaultRequestTimeout is the per-request timeout for page fetches.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultDownloadTimeout is the per-request timeout for image downloads.
	DefaultDownloadTimeout = 60 * time.Second

	// DefaultDelayBetweenPosts paces successive post fetches.
	DefaultDelayBetweenPosts = 1 * time.Second

	// DefaultDelayBetweenPages paces successive listing page fetches.
	DefaultDelayBetweenPages = 2 * time.Second

	// DefaultRetryWait is the initial backoff between request retries.
	DefaultRetryWait = 2 * time.Second

	// DefaultRetryMaxWait caps the backoff between request retries.
	DefaultRetryMaxWait = 10 * time.Second

	// DefaultMinImageArea rejects images whose declared width*height is
	// below this (icons, bullets, UI chrome).
	DefaultMinImageArea = 10000

	// DefaultUserAgent is a desktop browser user agent; the report site
	// serves a reduced page to unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// DefaultImageExtensions are the accepted report image extensions.
func DefaultImageExtensions() []string {
	return []string{".jpg", ".jpeg"}
}

// DefaultIconPatterns are filename substrings identifying UI images that
// are never report tables.
func DefaultIconPatterns() []string {
	return []string{
		"icon", "logo", "avatar", "banner",
		"header", "footer", "sidebar", "thumbnail", "placeholder",
	}
}

// ScraperConfig holds the download phase settings.
type ScraperConfig struct {
	// BaseURL is the listing page of the report category.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// StartPage is the first listing page to visit (1-based).
	StartPage int `yaml:"start_page" mapstructure:"start_page"`
	// MaxPages is the maximum number of listing pages to visit.
	MaxPages int `yaml:"max_pages" mapstructure:"max_pages"`
	// OutputDir is the artifact store root.
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
	// UserAgent is sent on every request.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// RequestTimeout bounds listing and post page fetches.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	// DownloadTimeout bounds image downloads.
	DownloadTimeout time.Duration `yaml:"download_timeout" mapstructure:"download_timeout"`
	// RetryCount is the number of attempts per request.
	RetryCount int `yaml:"retry_count" mapstructure:"retry_count"`
	// RetryWait is the initial backoff between retries.
	RetryWait time.Duration `yaml:"retry_wait" mapstructure:"retry_wait"`
	// RetryMaxWait caps the backoff between retries.
	RetryMaxWait time.Duration `yaml:"retry_max_wait" mapstructure:"retry_max_wait"`
	// DelayBetweenPosts paces successive post fetches.
	DelayBetweenPosts time.Duration `yaml:"delay_between_posts" mapstructure:"delay_between_posts"`
	// DelayBetweenPages paces successive listing page fetches.
	DelayBetweenPages time.Duration `yaml:"delay_between_pages" mapstructure:"delay_between_pages"`
	// ImageExtensions are the accepted image extensions.
	ImageExtensions []string `yaml:"image_extensions" mapstructure:"image_extensions"`
	// IconPatterns are filename substrings identifying UI images.
	IconPatterns []string `yaml:"icon_patterns" mapstructure:"icon_patterns"`
	// MinImageArea rejects images smaller than this declared pixel area.
	MinImageArea int `yaml:"min_image_area" mapstructure:"min_image_area"`
}

// Validate checks if the scraper configuration is valid.
func (c *ScraperConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.StartPage < 1 || c.MaxPages < 1 {
		return ErrInvalidPageRange
	}
	if c.OutputDir == "" {
		return ErrMissingOutputDir
	}
	return nil
}
