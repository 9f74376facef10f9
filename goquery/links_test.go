package goquery_test

import (
	"testing"

	"github.com/lawdit/lawdit"
	"github.com/lawdit/lawdit/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><head><title>Guidance | Regulator</title></head><body>
<nav>
  <a href="/">Home</a>
  <a href="/guidance/contracts">Contracts</a>
</nav>
<main>
  <a href="/guidance/contracts#processors">Processors</a>
  <a href="https://eur-lex.europa.eu/eli/reg/2016/679/oj">GDPR</a>
  <a href="mailto:info@regulator.example">Email</a>
  <a href="#top">Top</a>
  <a href="javascript:void(0)">Menu</a>
</main>
<footer><a href="/guidance/contracts">Contracts again</a></footer>
</body></html>`

func TestExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("lists content links first and resolves relative links", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.ExtractLinks(page, "https://regulator.example/guidance", 0)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://regulator.example/guidance/contracts",
			"https://eur-lex.europa.eu/eli/reg/2016/679/oj",
			"https://regulator.example/",
		}, links)
	})

	t.Run("limits number of links", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.ExtractLinks(page, "https://regulator.example/guidance", 1)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://regulator.example/guidance/contracts"}, links)
	})

	t.Run("drops links to the page itself", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.ExtractLinks(`<a href="/guidance#a">self</a>`, "https://regulator.example/guidance", 0)

		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("rejects relative page URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.ExtractLinks(page, "/guidance", 0)

		assert.Equal(t, lawdit.EINVALID, lawdit.ErrorCode(err))
	})
}

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	t.Run("prefers og:title", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Contracts", goquery.ExtractTitle(`<head><meta property="og:title" content="Contracts"><title>Other</title></head>`))
	})

	t.Run("falls back to title then h1", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Guidance | Regulator", goquery.ExtractTitle(page))
		assert.Equal(t, "Heading", goquery.ExtractTitle(`<body><h1> Heading </h1></body>`))
	})
}
