package codec

import (
	"fmt"

	"doccoder-be/pkg/content"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicy  = bluemonday.UGCPolicy()
	mdConverter = converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
)

// readHTML strips scripts and unsafe markup, then renders the page as Markdown.
func readHTML(data []byte) (*content.ExtractedContent, error) {
	clean := htmlPolicy.SanitizeBytes([]byte(decodeText(data)))

	md, err := mdConverter.ConvertString(string(clean))
	if err != nil {
		return nil, fmt.Errorf("%w: html: %v", ErrCorruptFile, err)
	}

	return &content.ExtractedContent{
		Text:   md,
		Tables: DetectTables(md),
	}, nil
}
