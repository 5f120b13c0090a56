package script

// This file contains the template renderer: turning a resolved
// configuration into the line-oriented input script consumed by the
// simulation executable.

import (
	"fmt"
	"strings"

	"github.com/nebrun/nebrun/config"
)

// Block binds a named template position to a list-valued key in the
// resolved configuration.
type Block struct {
	Name string
}

// Template is a fixed, ordered sequence of blocks preceded by a title
// line. The structure is not data-driven: which blocks exist and their
// order is shared by every run.
type Template struct {
	Blocks []Block
}

// Input is the template for simulation input scripts: the title line
// followed by the physical, radiation, runtime and saves blocks.
var Input = Template{
	Blocks: []Block{
		{Name: "physical"},
		{Name: "radiation"},
		{Name: "runtime"},
		{Name: "saves"},
	},
}

// MissingVariableError reports a template block with no corresponding
// key in the resolved configuration. A forgotten key is a configuration
// bug, not a valid empty block.
type MissingVariableError struct {
	Block string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("template block %q has no value in the resolved configuration", e.Block)
}

// Render produces the final script text. Rendering is strict: every
// block the template names must exist in the resolved configuration,
// and each line is emitted verbatim, one per output line, in order.
func (t Template) Render(cfg *config.Resolved) (string, error) {
	var b strings.Builder

	if cfg.Suffix != "" {
		fmt.Fprintf(&b, "%s, %s\n", cfg.Title, cfg.Suffix)
	} else {
		fmt.Fprintf(&b, "%s\n", cfg.Title)
	}

	for _, block := range t.Blocks {
		lines, ok := cfg.Blocks[block.Name]
		if !ok {
			return "", &MissingVariableError{Block: block.Name}
		}
		for _, line := range lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	return b.String(), nil
}
