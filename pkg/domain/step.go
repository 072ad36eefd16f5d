package domain

// InitialStep is the name of the step every model starts with.
const InitialStep = "Initial"

// ProcedureInitial is the procedure type of the initial step.
const ProcedureInitial Symbol = "INITIAL"

// Step is a named, ordered stage in the analysis sequence.
type Step struct {
	Name      string `json:"name" yaml:"name" mapstructure:"name"`
	Procedure Symbol `json:"procedure" yaml:"procedure" mapstructure:"procedure"`
}

// StepOrder resolves step names to their position in the sequence.
type StepOrder interface {
	// Steps returns the ordered steps.
	Steps() []Step
	// Index returns the position of name, or -1 when it does not exist.
	Index(name string) int
}
