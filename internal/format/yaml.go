package format

import (
	"io"

	"gopkg.in/yaml.v3"

	"reviewlens/internal/model"
)

// YAMLRenderer writes the analysis as YAML.
type YAMLRenderer struct{}

func (r *YAMLRenderer) Render(w io.Writer, analyzed *model.AnalyzedComments) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(analyzed)
}
