package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Overlay highlights one step of the timeline.
type Overlay struct {
	CurrentStep string
}

// Timeline describes one entity for rendering.
type Timeline struct {
	// ID prefixes node ids so several timelines can share a chart.
	ID     string
	Label  string
	States []domain.StepState
	Ops    []domain.Op
}

// GenerateMermaid produces a left-to-right Mermaid flowchart of one or more
// entity timelines. Each step is a node labelled with the object status;
// node shape follows the step's role:
//   - Creation step: ((Circle))
//   - Step with a recorded operation: [[Subroutine]]
//   - Suppressed status: [/Parallelogram/]
//   - Default: [Rectangle]
//
// Edges are dotted while the entity is suppressed.
func GenerateMermaid(timelines []Timeline, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, tl := range timelines {
		indent := "    "
		if len(timelines) > 1 {
			fmt.Fprintf(&sb, "    subgraph %s[\"%s\"]\n", sanitizeMermaidID(tl.ID), tl.Label)
			indent = "        "
		}
		writeTimeline(&sb, indent, tl)
		if len(timelines) > 1 {
			sb.WriteString("    end\n")
		}
	}

	sb.WriteString("\n    %% Status Styles\n")
	// Black text keeps labels readable under both light and dark themes.
	sb.WriteString("    classDef modified fill:#fff3e0,stroke:#e65100,color:#000;\n")
	sb.WriteString("    classDef suppressed fill:#eceff1,stroke:#607d8b,stroke-dasharray:4,color:#000;\n")
	sb.WriteString("    classDef computed fill:#e8f5e9,stroke:#2e7d32,color:#000;\n")
	sb.WriteString("    classDef inapplicable fill:#fafafa,stroke:#bdbdbd,color:#757575;\n")
	for _, tl := range timelines {
		for _, st := range tl.States {
			if class := statusClass(st.Status); class != "" {
				fmt.Fprintf(&sb, "    class %s %s;\n", nodeID(tl.ID, st.Step), class)
			}
		}
	}

	if overlay != nil && overlay.CurrentStep != "" {
		sb.WriteString("    classDef current stroke:#fbc02d,stroke-width:4px;\n")
		for _, tl := range timelines {
			if slices.ContainsFunc(tl.States, func(st domain.StepState) bool { return st.Step == overlay.CurrentStep }) {
				fmt.Fprintf(&sb, "    class %s current;\n", nodeID(tl.ID, overlay.CurrentStep))
			}
		}
	}
	return sb.String()
}

func writeTimeline(sb *strings.Builder, indent string, tl Timeline) {
	opSteps := make(map[string][]string)
	for _, op := range tl.Ops {
		opSteps[op.Step] = append(opSteps[op.Step], string(op.Kind))
	}

	for i, st := range tl.States {
		opener, closer := "[", "]"
		switch {
		case i == 0:
			opener, closer = "((", "))"
		case st.Status.Suppressed():
			opener, closer = "[/", "/]"
		case len(opSteps[st.Step]) > 0:
			opener, closer = "[[", "]]"
		}

		label := fmt.Sprintf("%s<br/>%s", st.Step, st.Status)
		if ops := opSteps[st.Step]; len(ops) > 0 {
			label += "<br/><i>" + strings.Join(ops, ", ") + "</i>"
		}
		fmt.Fprintf(sb, "%s%s%s\"%s\"%s\n", indent, nodeID(tl.ID, st.Step), opener, escape(label), closer)

		if i == 0 {
			continue
		}
		arrow := "-->"
		if st.Status.Suppressed() {
			arrow = "-.->"
		}
		fmt.Fprintf(sb, "%s%s %s %s\n", indent, nodeID(tl.ID, tl.States[i-1].Step), arrow, nodeID(tl.ID, st.Step))
	}
}

func statusClass(s domain.Status) string {
	switch {
	case s.Suppressed():
		return "suppressed"
	case s == domain.StatusModified, s == domain.StatusResetToInitial:
		return "modified"
	case s == domain.StatusToBeComputed, s == domain.StatusPropagatedFromComputed:
		return "computed"
	case s == domain.StatusTypeNotApplicable, s == domain.StatusInstanceNotApplicable:
		return "inapplicable"
	}
	return ""
}

func nodeID(prefix, step string) string {
	if prefix == "" {
		return sanitizeMermaidID(step)
	}
	return sanitizeMermaidID(prefix + "__" + step)
}

func escape(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return r.Replace(id)
}
