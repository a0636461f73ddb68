package harness

import "fmt"

// CaseOK is the outcome case of a successful step.
const CaseOK = "ok"

// StepOutcome is what one flow step actually did.
type StepOutcome struct {
	Seq     int    `json:"seq"`
	Invoke  string `json:"invoke"`
	Case    string `json:"case"`
	Message string `json:"message"`
	EventID int64  `json:"event_id,omitempty"`
}

// String renders the outcome as one golden-file line.
func (o StepOutcome) String() string {
	return fmt.Sprintf("%d %s: %s: %s", o.Seq, o.Invoke, o.Case, o.Message)
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Steps holds one outcome per flow step, in order.
	Steps []StepOutcome `json:"steps"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Reports holds the rendered timesheets requested by the scenario.
	Reports []string `json:"reports,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepOutcome{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep appends a step outcome.
func (r *Result) AddStep(o StepOutcome) {
	r.Steps = append(r.Steps, o)
}

// AssertionError describes a failed assertion.
type AssertionError struct {
	Type     string
	Expected interface{}
	Actual   interface{}
	Message  string
}

func (e *AssertionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (expected %v, got %v)", e.Type, e.Message, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: expected %v, got %v", e.Type, e.Expected, e.Actual)
}
