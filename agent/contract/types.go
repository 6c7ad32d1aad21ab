package contract

import (
	"strings"
	"time"
)

type AgentType string

const (
	AgentTypeRouter AgentType = "router"
)

// Tool names exposed by the restaurant tool server.
const (
	ToolLogPreparationStart    = "log_preparation_start"
	ToolLogPreparationComplete = "log_preparation_complete"
	ToolValidateIngredients    = "validate_ingredients"
	ToolGetQualityScore        = "get_quality_score"
)

type Skill struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
	Examples    []string `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// CapabilityCard is the self-description a worker advertises to the router.
type CapabilityCard struct {
	ID                 string   `json:"id" yaml:"id"`
	DisplayName        string   `json:"display_name" yaml:"display_name"`
	Description        string   `json:"description" yaml:"description"`
	URL                string   `json:"url,omitempty" yaml:"url,omitempty"`
	Version            string   `json:"version,omitempty" yaml:"version,omitempty"`
	Skills             []Skill  `json:"skills" yaml:"skills"`
	DefaultInputModes  []string `json:"default_input_modes,omitempty" yaml:"default_input_modes,omitempty"`
	DefaultOutputModes []string `json:"default_output_modes,omitempty" yaml:"default_output_modes,omitempty"`
}

// Tags returns the de-duplicated union of all skill tags, in first-seen order.
func (c CapabilityCard) Tags() []string {
	seen := make(map[string]struct{}, 8)
	out := make([]string, 0, 8)
	for _, s := range c.Skills {
		for _, tag := range s.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			key := strings.ToLower(tag)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// Examples returns every skill example phrase in declaration order.
func (c CapabilityCard) Examples() []string {
	out := make([]string, 0, 4)
	for _, s := range c.Skills {
		out = append(out, s.Examples...)
	}
	return out
}

func (c CapabilityCard) SkillNames() []string {
	out := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		out = append(out, s.Name)
	}
	return out
}

// Clone returns a deep copy so callers can never mutate a worker's card.
func (c CapabilityCard) Clone() CapabilityCard {
	out := c
	out.Skills = make([]Skill, len(c.Skills))
	for i, s := range c.Skills {
		s.Tags = append([]string(nil), s.Tags...)
		s.Examples = append([]string(nil), s.Examples...)
		out.Skills[i] = s
	}
	out.DefaultInputModes = append([]string(nil), c.DefaultInputModes...)
	out.DefaultOutputModes = append([]string(nil), c.DefaultOutputModes...)
	return out
}

type Order struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
}

type MatchScore struct {
	WorkerID string `json:"worker_id"`
	Score    int    `json:"score"`
}

type ToolInvocation struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	Tool    string `json:"tool"`
	Text    string `json:"text,omitempty"`
	Value   any    `json:"value,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
}

type PreparationStep struct {
	Label     string        `json:"label"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// PreparationResult is what a worker hands back after executing an order.
// ToolNotes carries whatever the tool session answered; Degraded is true when
// at least one auxiliary tool call could not be completed.
type PreparationResult struct {
	Item            string            `json:"item"`
	Quality         string            `json:"quality"`
	PreparationTime time.Duration     `json:"preparation_time"`
	Steps           []PreparationStep `json:"steps"`
	Ingredients     []string          `json:"ingredients,omitempty"`
	Details         map[string]string `json:"details,omitempty"`
	QualityCheck    string            `json:"quality_check,omitempty"`
	ToolNotes       []string          `json:"tool_notes,omitempty"`
	Degraded        bool              `json:"degraded,omitempty"`
	Text            string            `json:"text"`
}

type OrderStatus string

const (
	OrderCompleted OrderStatus = "completed"
	OrderFailed    OrderStatus = "failed"
)

type CompletedOrder struct {
	Seq            int         `json:"seq"`
	OrderID        string      `json:"order_id"`
	Description    string      `json:"description"`
	ChosenWorkerID string      `json:"chosen_worker_id"`
	WorkerName     string      `json:"worker_name"`
	SkillsUsed     []string    `json:"skills_used"`
	Status         OrderStatus `json:"status"`
	ResultText     string      `json:"result_text"`
	CompletedAt    time.Time   `json:"completed_at"`
}

// OrderOutcome is one line of a batch report: either Completed is set or Err is.
type OrderOutcome struct {
	Index     int             `json:"index"`
	Order     Order           `json:"order"`
	Completed *CompletedOrder `json:"completed,omitempty"`
	Err       error           `json:"-"`
}

func (o OrderOutcome) Status() OrderStatus {
	if o.Err != nil || o.Completed == nil {
		return OrderFailed
	}
	return OrderCompleted
}
