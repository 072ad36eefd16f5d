package loam

import (
	"github.com/aretw0/stepwise/pkg/script"
)

// ScriptDocument is the metadata of a script document. YAML and JSON files
// carry it as their whole body; Markdown files carry it as frontmatter, so a
// script can sit next to its prose description.
type ScriptDocument struct {
	// ID overrides the file name as the script name.
	ID string `json:"id,omitempty" mapstructure:"id"`

	script.Script `mapstructure:",squash"`
}
