package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioDir = "../../testdata/scenarios"

func TestScenarios_Golden(t *testing.T) {
	scenarios, err := LoadScenarios(scenarioDir)
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestRun_IsDeterministic(t *testing.T) {
	s, err := LoadScenario(filepath.Join(scenarioDir, "calendar.yaml"))
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, Snapshot(s.Name, first), Snapshot(s.Name, second))
}

func TestRun_ReportsBrokenExpectation(t *testing.T) {
	s := &Scenario{
		Name:        "wrong_expectation",
		Description: "A rejected punch expected to pass",
		Employees:   []string{"Ana"},
		Flow: []FlowStep{
			{Invoke: OpRecord, Args: map[string]interface{}{"employee": "Ana", "kind": "saida", "at": "2026-03-02 17:00"}},
			{
				Invoke: OpRecord,
				Args:   map[string]interface{}{"employee": "Ana", "kind": "entrada", "at": "2026-03-02 08:00"},
				Expect: &ExpectClause{Case: CaseOK, Message: "clock-in recorded at 09:00"},
			},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "expected case ok, got SEQUENCE_VIOLATION")
	assert.Contains(t, result.Errors[1], `expected message "clock-in recorded at 09:00", got "clock-in recorded at 08:00"`)

	require.Len(t, result.Steps, 2)
	assert.Equal(t, StepOutcome{Seq: 1, Invoke: OpRecord, Case: "SEQUENCE_VIOLATION", Message: "record entry first"}, result.Steps[0])
	assert.Equal(t, int64(1), result.Steps[1].EventID)
}

func TestRun_ReportsFailedAssertion(t *testing.T) {
	s := &Scenario{
		Name:        "wrong_total",
		Description: "A half day asserted as a full one",
		Employees:   []string{"Ana"},
		Flow: []FlowStep{
			{Invoke: OpRecord, Args: map[string]interface{}{"employee": "Ana", "kind": "entrada", "at": "2026-03-02 08:00"}},
			{Invoke: OpRecord, Args: map[string]interface{}{"employee": "Ana", "kind": "saida", "at": "2026-03-02 12:00"}},
		},
		Assertions: []Assertion{
			{Type: AssertWorked, Employee: "Ana", Date: "2026-03-02", Expect: "4h00m"},
			{Type: AssertMonthTotal, Employee: "Ana", Year: 2026, Month: 3, Expect: "8h00m"},
			{Type: AssertEventCount, Employee: "Ana", Date: "2026-03-02", Count: 2},
			{Type: AssertAuditCount, Count: 3},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "assertion 1")
	assert.Contains(t, result.Errors[0], "expected 8h00m, got 4h00m")
}

func TestRun_AddedEmployeeIsAddressableByName(t *testing.T) {
	s := &Scenario{
		Name:        "hire_then_punch",
		Description: "An employee added mid-flow records events",
		Flow: []FlowStep{
			{Invoke: OpAddEmployee, Args: map[string]interface{}{"name": "  Bia  "}},
			{Invoke: OpRecord, Args: map[string]interface{}{"employee": "  Bia  ", "kind": "entrada", "at": "2026-03-02 08:00"}},
			{Invoke: OpAddEmployee, Args: map[string]interface{}{"name": " "}, Expect: &ExpectClause{Case: "INVALID_INPUT"}},
		},
		Reports: []ReportRef{{Employee: "  Bia  ", Year: 2026, Month: 3}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)

	assert.Equal(t, "added employee Bia (id 1)", result.Steps[0].Message)
	require.Len(t, result.Reports, 1)
	assert.True(t, strings.HasPrefix(result.Reports[0], "timesheet   Bia   2026-03:\n"))
	assert.Contains(t, result.Reports[0], "2026-03-02 incomplete: entrada 08:00\n    warning: clock-in without clock-out\n")
}

func TestRun_MalformedStepIsAnError(t *testing.T) {
	s := &Scenario{
		Name:        "stranger",
		Description: "Unknown employee name",
		Flow: []FlowStep{
			{Invoke: OpRecord, Args: map[string]interface{}{"employee": "Zed", "kind": "entrada"}},
		},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown employee "Zed"`)
}

func TestRun_SetupFailure(t *testing.T) {
	s := &Scenario{
		Name:        "blank_hire",
		Description: "Setup employee without a name",
		Employees:   []string{" "},
		Flow:        []FlowStep{{Invoke: OpPurgeLogs, Args: map[string]interface{}{"days": 1}}},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setup")
}
