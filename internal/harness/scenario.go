package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one end-to-end block-list scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Setup steps establish initial state. They are not traced and must succeed.
	Setup []Step `yaml:"setup,omitempty"`

	// Flow steps are traced and may carry expectations.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is a single operation.
type Step struct {
	Op       string  `yaml:"op"`
	Number   string  `yaml:"number"`
	Name     string  `yaml:"name,omitempty"`
	Body     string  `yaml:"body,omitempty"`
	RemoteID string  `yaml:"remote_id,omitempty"`
	Expect   *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a flow step.
type Expect struct {
	// Outcome is compared with the traced outcome: "block", "allow", "ok",
	// "applied", "ignored", "removed", "absent".
	Outcome string `yaml:"outcome,omitempty"`

	// Decision is shorthand for Outcome on decide/screen steps.
	Decision string `yaml:"decision,omitempty"`

	// Error is the expected error code, e.g. INVALID_INPUT.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates final state.
type Assertion struct {
	Type        string  `yaml:"type"`
	Number      string  `yaml:"number,omitempty"`
	Status      string  `yaml:"status,omitempty"`
	RemoteID    *string `yaml:"remote_id,omitempty"`
	DisplayName *string `yaml:"display_name,omitempty"`
	Preview     *string `yaml:"preview,omitempty"`
	Action      string  `yaml:"action,omitempty"`
	Count       int     `yaml:"count,omitempty"`
}

// Step operations.
const (
	OpAdd          = "add"
	OpRemove       = "remove"
	OpMarkSynced   = "mark_synced"
	OpMarkConflict = "mark_conflict"
	OpDecide       = "decide"
	OpScreenCall   = "screen_call"
	OpScreenSMS    = "screen_sms"
)

// Assertion types.
const (
	AssertEntry          = "entry"
	AssertNoEntry        = "no_entry"
	AssertCallEvents     = "call_events"
	AssertMessageEvents  = "message_events"
	AssertMessagePreview = "message_preview"
	AssertNotifications  = "notifications"
)

var knownOps = map[string]bool{
	OpAdd: true, OpRemove: true, OpMarkSynced: true, OpMarkConflict: true,
	OpDecide: true, OpScreenCall: true, OpScreenSMS: true,
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if err := validateStep(fmt.Sprintf("setup[%d]", i), step); err != nil {
			return err
		}
		if step.Expect != nil {
			return fmt.Errorf("setup[%d]: expect is not allowed in setup", i)
		}
	}
	for i, step := range s.Flow {
		if err := validateStep(fmt.Sprintf("flow[%d]", i), step); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(where string, step Step) error {
	if step.Op == "" {
		return fmt.Errorf("%s: op is required", where)
	}
	if !knownOps[step.Op] {
		return fmt.Errorf("%s: unknown op %q", where, step.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertEntry, AssertNoEntry, AssertMessagePreview:
		if a.Number == "" {
			return fmt.Errorf("assertions[%d]: number is required for %s", index, a.Type)
		}
		if a.Type == AssertMessagePreview && a.Preview == nil {
			return fmt.Errorf("assertions[%d]: preview is required for %s", index, a.Type)
		}
	case AssertCallEvents, AssertMessageEvents:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertNotifications:
		if a.Action != "added" && a.Action != "removed" {
			return fmt.Errorf("assertions[%d]: action must be added or removed", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
