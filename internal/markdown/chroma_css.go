package markdown

import (
	"bytes"
	"html/template"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

const chromaStyle = "github"

var (
	chromaCSSOnce sync.Once
	chromaCSS     template.CSS
)

// ChromaCSS returns the stylesheet for highlighted code blocks.
func ChromaCSS() template.CSS {
	chromaCSSOnce.Do(func() {
		style := styles.Get(chromaStyle)
		if style == nil {
			style = styles.Fallback
		}

		var buffer bytes.Buffer
		formatter := chromahtml.New(chromahtml.WithClasses(true))
		if err := formatter.WriteCSS(&buffer, style); err == nil {
			chromaCSS = template.CSS(buffer.String())
		}
	})

	return chromaCSS
}
