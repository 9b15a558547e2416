package widgetdemo

import (
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/svg"
)

var (
	minifier *minify.M
	once     sync.Once
)

// getMinifier returns a configured HTML minifier (singleton)
func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		// Keep markup the client script and tests look for.
		minifier.Add("text/html", &html.Minifier{
			KeepDocumentTags:    true,
			KeepEndTags:         true,
			KeepQuotes:          true,
			KeepDefaultAttrVals: true,
		})
		minifier.AddFunc("text/css", css.Minify)
		minifier.AddFunc("image/svg+xml", svg.Minify)
	})
	return minifier
}

// minifyHTML removes unnecessary whitespace from a rendered page. When
// minification fails the original content is returned.
func minifyHTML(page []byte) []byte {
	minified, err := getMinifier().Bytes("text/html", page)
	if err != nil {
		return page
	}
	return minified
}
