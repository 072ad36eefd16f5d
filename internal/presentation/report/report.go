// Package report renders models and entities as Markdown.
package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/entity"
	"github.com/aretw0/stepwise/pkg/model"
	"github.com/aretw0/stepwise/pkg/schema"
)

// Model renders the step sequence and a status matrix with one row per
// entity and one column per step.
func Model(m *model.Model) string {
	var sb strings.Builder
	steps := m.Steps()

	fmt.Fprintf(&sb, "# %s\n\n", m.Name())
	sb.WriteString("| # | Step | Procedure |\n|---|---|---|\n")
	for i, st := range steps {
		fmt.Fprintf(&sb, "| %d | %s | %s |\n", i, st.Name, st.Procedure)
	}

	if m.Amplitudes.Len() > 0 || m.InteractionProperties.Len() > 0 {
		sb.WriteString("\n## References\n\n")
		for _, a := range m.Amplitudes.Values() {
			fmt.Fprintf(&sb, "- amplitude **%s** (%d rows)\n", a.Name, len(a.Data))
		}
		for _, p := range m.InteractionProperties.Values() {
			fmt.Fprintf(&sb, "- interaction property **%s** (%s)\n", p.Name, p.Type)
		}
	}

	for _, repo := range m.Repositories() {
		if repo.Len() == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n## %s\n\n", repo.Scope())
		sb.WriteString("| Key | Kind |")
		for _, st := range steps {
			fmt.Fprintf(&sb, " %s |", st.Name)
		}
		sb.WriteString("\n|---|---|")
		sb.WriteString(strings.Repeat("---|", len(steps)))
		sb.WriteString("\n")
		for _, e := range repo.Values() {
			fmt.Fprintf(&sb, "| %s | %s |", e.Key(), e.Kind().Name)
			for _, st := range steps {
				fmt.Fprintf(&sb, " %s |", e.Status(st.Name))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Entity renders the creation definition and the StepState sequence.
func Entity(e *entity.Entity) string {
	var sb strings.Builder
	k := e.Kind()
	fmt.Fprintf(&sb, "## %s/%s\n\n", e.Scope(), e.Key())
	fmt.Fprintf(&sb, "Kind **%s**, created in **%s**.\n\n", k.Name, e.CreateStep())

	def := e.Definition()
	var creation []string
	for _, f := range k.Fields {
		if f.Mutability != schema.CreationOnly {
			continue
		}
		if v, ok := def[f.Name]; ok {
			creation = append(creation, fmt.Sprintf("- %s: `%s`", f.Name, FormatValue(v)))
		}
	}
	if len(creation) > 0 {
		sb.WriteString(strings.Join(creation, "\n"))
		sb.WriteString("\n\n")
	}

	fields := k.PropagatingFields()
	sb.WriteString("| Step | Status |")
	for _, f := range fields {
		fmt.Fprintf(&sb, " %s |", f.Name)
	}
	sb.WriteString("\n|---|---|")
	sb.WriteString(strings.Repeat("---|", len(fields)))
	sb.WriteString("\n")

	for _, st := range e.States() {
		fmt.Fprintf(&sb, "| %s | %s |", st.Step, st.Status)
		for _, f := range fields {
			fmt.Fprintf(&sb, " %s |", FormatField(st.Fields[f.Name]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Diff renders only what changes from step to step.
func Diff(e *entity.Entity) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s/%s changes\n\n", e.Scope(), e.Key())

	diffs := domain.DiffSequence(e.States())
	for _, d := range diffs {
		fmt.Fprintf(&sb, "### %s\n\n", d.To)
		if d.Status != nil {
			fmt.Fprintf(&sb, "- status → **%s**\n", *d.Status)
		}
		for _, name := range d.ChangedFields() {
			delta := d.Fields[name]
			fmt.Fprintf(&sb, "- %s: %s → %s\n", name, FormatField(delta.Before), FormatField(delta.After))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatField renders a value with its tag, e.g. "20 (MODIFIED)".
func FormatField(fs domain.FieldState) string {
	if fs.Status == "" {
		return "·"
	}
	if fs.Value == nil {
		return string(fs.Status)
	}
	return fmt.Sprintf("%s (%s)", FormatValue(fs.Value), fs.Status)
}

// FormatValue renders a field value compactly.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "<unset>"
	case domain.Region:
		return x.String()
	case domain.Table:
		return fmt.Sprintf("table[%d]", len(x))
	case domain.Symbol:
		return string(x)
	}
	return fmt.Sprintf("%v", v)
}

// Kinds renders the kind catalog grouped by family.
func Kinds(kinds []*schema.Kind) string {
	var sb strings.Builder
	for _, fam := range schema.Families {
		var rows []*schema.Kind
		for _, k := range kinds {
			if k.Family == fam {
				rows = append(rows, k)
			}
		}
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n| Kind | Creation fields | Propagating fields | Amend |\n|---|---|---|---|\n", fam)
		for _, k := range rows {
			var creation, propagating []string
			for _, f := range k.Fields {
				name := f.Name
				if f.Required {
					name += "*"
				}
				if f.Mutability == schema.Propagating {
					propagating = append(propagating, name)
				} else {
					creation = append(creation, name)
				}
			}
			amend := "yes"
			if k.Amend == schema.AmendForbidden {
				amend = "no"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", k.Name, strings.Join(creation, ", "), strings.Join(propagating, ", "), amend)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
