package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ponto/internal/domain"
)

// Scenario defines an attendance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Location is the IANA zone calendar days are derived in. Defaults to UTC.
	Location string `yaml:"location,omitempty"`

	// Clock is the wall-clock start, as "YYYY-MM-DD HH:MM". Each read
	// advances it by one second. Defaults to 2026-01-01 00:00.
	Clock string `yaml:"clock,omitempty"`

	// Actor is the acting user for every operation. Defaults to "harness".
	Actor string `yaml:"actor,omitempty"`

	// Employees are created in order before the flow, so the first one gets ID 1.
	Employees []string `yaml:"employees,omitempty"`

	// Holidays are registered before the flow.
	Holidays []string `yaml:"holidays,omitempty"`

	// DaysOff are set before the flow.
	DaysOff []DayOff `yaml:"days_off,omitempty"`

	// Flow is the sequence of operations under test.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// Reports lists the monthly timesheets included in the golden snapshot.
	Reports []ReportRef `yaml:"reports,omitempty"`
}

// DayOff is a setup day-off for a named employee.
type DayOff struct {
	Employee string `yaml:"employee"`
	Date     string `yaml:"date"`
}

// FlowStep invokes one ledger operation.
type FlowStep struct {
	// Invoke is the operation name, e.g. "record".
	Invoke string `yaml:"invoke"`

	// Args are the operation's arguments.
	Args map[string]interface{} `yaml:"args"`

	// Expect is the expected outcome. Omitted means the step must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause describes the expected outcome of a step.
type ExpectClause struct {
	// Case is "ok" or a ledger error code such as "SEQUENCE_VIOLATION".
	Case string `yaml:"case"`

	// Message, when set, must equal the outcome message exactly.
	Message string `yaml:"message,omitempty"`
}

// Assertion validates the state left by the flow.
type Assertion struct {
	Type string `yaml:"type"`

	Employee string `yaml:"employee,omitempty"`
	Date     string `yaml:"date,omitempty"`
	Year     int    `yaml:"year,omitempty"`
	Month    int    `yaml:"month,omitempty"`

	Category string `yaml:"category,omitempty"`
	Status   string `yaml:"status,omitempty"`

	// Count is the expected number for event_count and audit_count.
	Count int `yaml:"count"`

	// Expect is the expected formatted duration for worked and month_total.
	Expect string `yaml:"expect,omitempty"`

	// WorkedDays optionally checks the month's worked-day count.
	WorkedDays *int `yaml:"worked_days,omitempty"`
}

// ReportRef selects one employee month.
type ReportRef struct {
	Employee string `yaml:"employee"`
	Year     int    `yaml:"year"`
	Month    int    `yaml:"month"`
}

// Operation names accepted in flow steps.
const (
	OpAddEmployee    = "add_employee"
	OpRemoveEmployee = "remove_employee"
	OpRecord         = "record"
	OpAdjust         = "adjust"
	OpRemove         = "remove"
	OpAddHoliday     = "add_holiday"
	OpSetDayOff      = "set_day_off"
	OpPurgeLogs      = "purge_logs"
)

// Assertion type names.
const (
	AssertEventCount = "event_count"
	AssertAuditCount = "audit_count"
	AssertWorked     = "worked"
	AssertMonthTotal = "month_total"
)

// clockLayout is the layout of Scenario.Clock.
const clockLayout = "2006-01-02 15:04"

// LoadScenario parses a scenario file. Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", filepath.Base(path), err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", filepath.Base(path), err)
	}
	return &s, nil
}

// LoadScenarios loads every *.yaml file in dir, in lexical order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow must have at least one step")
	}

	if s.Location != "" {
		if _, err := time.LoadLocation(s.Location); err != nil {
			return fmt.Errorf("location: %w", err)
		}
	}
	if s.Clock != "" {
		if _, err := time.Parse(clockLayout, s.Clock); err != nil {
			return fmt.Errorf("clock: expected YYYY-MM-DD HH:MM, got %q", s.Clock)
		}
	}

	names := map[string]bool{}
	for i, name := range s.Employees {
		if domain.NormalizeText(name) == "" {
			return fmt.Errorf("employees[%d]: name is required", i)
		}
		if names[name] {
			return fmt.Errorf("employees[%d]: duplicate name %q", i, name)
		}
		names[name] = true
	}
	for i, raw := range s.Holidays {
		if _, err := domain.ParseDate(raw); err != nil {
			return fmt.Errorf("holidays[%d]: %w", i, err)
		}
	}
	for i, off := range s.DaysOff {
		if !names[off.Employee] {
			return fmt.Errorf("days_off[%d]: unknown employee %q", i, off.Employee)
		}
		if _, err := domain.ParseDate(off.Date); err != nil {
			return fmt.Errorf("days_off[%d]: %w", i, err)
		}
	}

	for i, step := range s.Flow {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	for i, r := range s.Reports {
		if r.Employee == "" {
			return fmt.Errorf("reports[%d]: employee is required", i)
		}
		if r.Month < 1 || r.Month > 12 {
			return fmt.Errorf("reports[%d]: month must be between 1 and 12", i)
		}
	}
	return nil
}

// required lists the arguments each operation cannot run without.
var required = map[string][]string{
	OpAddEmployee:    {"name"},
	OpRemoveEmployee: {"employee"},
	OpRecord:         {"employee", "kind"},
	OpAdjust:         {"employee", "kind", "at", "justification"},
	OpRemove:         {"employee", "event", "justification"},
	OpAddHoliday:     {"date"},
	OpSetDayOff:      {"employee", "date"},
	OpPurgeLogs:      {"days"},
}

func validateStep(step FlowStep) error {
	args, ok := required[step.Invoke]
	if !ok {
		return fmt.Errorf("unknown operation %q", step.Invoke)
	}
	for _, name := range args {
		if _, ok := step.Args[name]; !ok {
			return fmt.Errorf("%s: %s is required", step.Invoke, name)
		}
	}
	if step.Expect != nil && step.Expect.Case == "" {
		return fmt.Errorf("expect.case is required")
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertEventCount:
		if a.Employee == "" || a.Date == "" {
			return fmt.Errorf("event_count requires employee and date")
		}
	case AssertAuditCount:
		if a.Category != "" {
			if _, err := domain.ParseCategory(a.Category); err != nil {
				return err
			}
		}
		if a.Status != "" && a.Status != string(domain.StatusSuccess) && a.Status != string(domain.StatusFailure) {
			return fmt.Errorf("audit_count: unknown status %q", a.Status)
		}
	case AssertWorked:
		if a.Employee == "" || a.Date == "" {
			return fmt.Errorf("worked requires employee and date")
		}
	case AssertMonthTotal:
		if a.Employee == "" || a.Year == 0 || a.Month == 0 {
			return fmt.Errorf("month_total requires employee, year and month")
		}
		if a.Expect == "" {
			return fmt.Errorf("month_total requires expect")
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
