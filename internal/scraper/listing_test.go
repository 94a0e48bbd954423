package scraper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/ppicrawl/internal/scraper"
)

const listingHTML = `<!DOCTYPE html>
<html><body>
<nav><a href="/categoria/ppi/page/2/">Próxima</a></nav>
<article>
  <h2 class="entry-title"><a href="https://abicom.com.br/ppi/ppi-07-04-2025/">PPI 07/04</a></h2>
</article>
<article>
  <h2 class="entry-title"><a href="https://abicom.com.br/ppi/ppi-04-04-2025/">PPI 04/04</a></h2>
</article>
<aside><a href="https://abicom.com.br/tag/diesel/">diesel</a></aside>
</body></html>`

const titleOnlyListingHTML = `<!DOCTYPE html>
<html><body>
<article>
  <h2 class="entry-title"><a href="/posts/relatorio-1/">Relatório 1</a></h2>
</article>
<article>
  <h2 class="post-title"><a href="/posts/relatorio-2/">Relatório 2</a></h2>
</article>
</body></html>`

func TestParseListing_PostLinksInDocumentOrder(t *testing.T) {
	t.Parallel()

	refs, err := scraper.ParseListing([]byte(listingHTML), "https://abicom.com.br/categoria/ppi/")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	require.Equal(t, "https://abicom.com.br/ppi/ppi-07-04-2025/", refs[0].URL)
	require.Equal(t, "https://abicom.com.br/ppi/ppi-04-04-2025/", refs[1].URL)
}

func TestParseListing_EntryTitleFallbackResolvesRelative(t *testing.T) {
	t.Parallel()

	refs, err := scraper.ParseListing([]byte(titleOnlyListingHTML), "https://example.com/categoria/ppi/")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	require.Equal(t, "https://example.com/posts/relatorio-1/", refs[0].URL)
	require.Equal(t, "https://example.com/posts/relatorio-2/", refs[1].URL)
}

func TestParseListing_DeduplicatesKeepingFirst(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<a href="https://abicom.com.br/ppi/ppi-07-04-2025/">a</a>
<a href="https://abicom.com.br/ppi/ppi-07-04-2025/">b</a>
</body></html>`

	refs, err := scraper.ParseListing([]byte(html), "https://abicom.com.br/categoria/ppi/")
	require.NoError(t, err)
	require.Len(t, refs, 1)
}

func TestParseListing_UnrecognizedMarkup(t *testing.T) {
	t.Parallel()

	_, err := scraper.ParseListing([]byte("<html><body><p>maintenance</p></body></html>"),
		"https://abicom.com.br/categoria/ppi/")
	require.ErrorIs(t, err, scraper.ErrListingMarkup)
}

func TestParseListing_EmptyListingIsNotAnError(t *testing.T) {
	t.Parallel()

	// Markup present but no posts: end-of-pagination, not a parse failure.
	html := `<html><body><a href="/categoria/ppi/">voltar</a></body></html>`

	refs, err := scraper.ParseListing([]byte(html), "https://abicom.com.br/categoria/ppi/page/9/")
	require.NoError(t, err)
	require.Empty(t, refs)
}
