package format

import (
	"encoding/json"
	"io"

	"reviewlens/internal/model"
)

// JSONRenderer writes the analysis as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, analyzed *model.AnalyzedComments) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(analyzed)
}
