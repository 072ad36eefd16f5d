/*
Package stepwise models step-scoped analysis configuration: boundary
conditions, loads, interactions and predefined fields that are created in
one analysis step and propagate through the steps that follow.

Every entity keeps its creation definition, the ordered history of calls
made on it and a derived StepState per step. A StepState carries the object
status (CREATED, PROPAGATED, MODIFIED, DEACTIVATED, ...) and one state tag
per propagating field. States are always re-derived from the history, so
inserting or deleting a step updates every entity that spans it.

# Concept

A Model is the explicit context object. It owns the ordered step sequence,
one insertion-ordered repository per entity family and the named targets
(amplitudes, interaction properties) that fields refer to. There is no
global session: callers pass the Model around, and pkg/session serializes
access when a model is shared and persisted.

# Usage

	m := stepwise.New("Model-1")
	_ = m.AppendStep("Step-1", "STATIC_GENERAL")
	_ = m.AppendStep("Step-2", "STATIC_GENERAL")

	bc, err := m.Create("DisplacementBC", "BC-1", "Step-1", domain.Values{
		"region": domain.Region{Set: "Edge"},
		"u1":     0.5,
	})
	if err != nil {
		log.Fatal(err)
	}
	_ = m.Amend("boundaryConditions", "BC-1", "Step-2", domain.Values{"u1": 1.0})
	fmt.Println(bc.Status("Step-2")) // MODIFIED

Models can also be described by YAML scripts (see pkg/script) and applied
with Load, or through the stepwise CLI, HTTP API and MCP server.
*/
package stepwise
