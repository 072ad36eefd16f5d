package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/stepwise/internal/presentation/graph"
	"github.com/aretw0/stepwise/pkg/domain"
)

func states(pairs ...string) []domain.StepState {
	var out []domain.StepState
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, domain.StepState{Step: pairs[i], Status: domain.Status(pairs[i+1])})
	}
	return out
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name      string
		timelines []graph.Timeline
		overlay   *graph.Overlay
		contains  []string
		excludes  []string
	}{
		{
			name: "Creation Step Shape",
			timelines: []graph.Timeline{{
				States: states("Step-1", "CREATED", "Step-2", "PROPAGATED"),
			}},
			contains: []string{
				`Step_1(("Step-1<br/>CREATED"))`,
				`Step_2["Step-2<br/>PROPAGATED"]`,
				"Step_1 --> Step_2",
			},
			excludes: []string{"subgraph"},
		},
		{
			name: "Operation Step Shape",
			timelines: []graph.Timeline{{
				States: states("Step-1", "CREATED", "Step-2", "MODIFIED"),
				Ops:    []domain.Op{{Kind: domain.OpAmend, Step: "Step-2"}},
			}},
			contains: []string{
				`Step_2[["Step-2<br/>MODIFIED<br/><i>amend</i>"]]`,
				"class Step_2 modified;",
			},
		},
		{
			name: "Suppressed Steps",
			timelines: []graph.Timeline{{
				States: states("Step-1", "CREATED", "Step-2", "DEACTIVATED", "Step-3", "DEACTIVATED"),
				Ops:    []domain.Op{{Kind: domain.OpDeactivate, Step: "Step-2"}},
			}},
			contains: []string{
				`Step_3[/"Step-3<br/>DEACTIVATED"/]`,
				"Step_2 -.-> Step_3",
				"class Step_3 suppressed;",
			},
		},
		{
			name: "Several Timelines",
			timelines: []graph.Timeline{
				{ID: "boundaryConditions/BC-1", Label: "BC-1", States: states("Initial", "CREATED")},
				{ID: "loads/L-1", Label: "L-1", States: states("Initial", "CREATED")},
			},
			contains: []string{
				`subgraph boundaryConditions_BC_1["BC-1"]`,
				`boundaryConditions_BC_1__Initial(("Initial<br/>CREATED"))`,
				`loads_L_1__Initial`,
			},
		},
		{
			name: "Overlay",
			timelines: []graph.Timeline{{
				States: states("Step-1", "CREATED", "Step-2", "PROPAGATED"),
			}},
			overlay:  &graph.Overlay{CurrentStep: "Step-2"},
			contains: []string{"class Step_2 current;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.timelines, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
		})
	}
}
