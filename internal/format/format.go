// Package format renders an analyzed comment model into the supported
// output formats. Rendering is pure presentation over the in-memory model.
package format

import (
	"fmt"
	"io"

	"reviewlens/internal/model"
)

// Renderer writes one representation of the analyzed model.
type Renderer interface {
	Render(w io.Writer, analyzed *model.AnalyzedComments) error
}

// New returns the renderer for a format name.
func New(format string) (Renderer, error) {
	switch format {
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "yaml", "yml":
		return &YAMLRenderer{}, nil
	case "text", "plain":
		return &TextRenderer{}, nil
	case "prompt":
		return &PromptRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}
