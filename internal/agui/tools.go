package agui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Tool is a named function an agent can call. Arguments and results are
// JSON-serializable; Schema documents the argument object for clients.
type Tool struct {
	Name        string
	Description string
	Schema      json.RawMessage
	Run         func(ctx context.Context, args json.RawMessage) (any, error)
}

// Registry holds an agent's tool bindings in registration order.
type Registry struct {
	tools map[string]*Tool
	order []string
}

func NewRegistry(tools ...*Tool) *Registry {
	r := &Registry{tools: make(map[string]*Tool, len(tools))}
	for _, t := range tools {
		r.tools[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return r
}

func (r *Registry) Get(name string) (*Tool, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.tools[name]
	return t, ok
}

func (r *Registry) Names() []string {
	if r == nil {
		return []string{}
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// PlanTracker holds the single active plan shared by the planning tools.
// Only one plan can be active at a time; a new plan cannot start until
// every step of the current one is completed.
type PlanTracker struct {
	mu   sync.Mutex
	plan *Plan
}

func NewPlanTracker() *PlanTracker { return &PlanTracker{} }

func (t *PlanTracker) CreatePlan(descriptions []string) (Plan, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(descriptions) == 0 {
		return Plan{}, errors.New("a plan needs at least one step")
	}
	if t.plan != nil && !t.plan.Completed() {
		return Plan{}, errors.New("a plan is already active; complete it before creating a new one")
	}
	steps := make([]Step, 0, len(descriptions))
	for _, d := range descriptions {
		steps = append(steps, Step{Description: d, Status: StepStatusPending})
	}
	t.plan = &Plan{Steps: steps}
	return t.snapshot(), nil
}

// snapshot copies the active plan so callers never share the tracked
// steps slice with in-flight updates. Callers must hold t.mu.
func (t *PlanTracker) snapshot() Plan {
	return Plan{Steps: append([]Step(nil), t.plan.Steps...)}
}

func (t *PlanTracker) UpdateStep(index int, description *string, status *StepStatus) (Plan, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.plan == nil {
		return Plan{}, errors.New("no active plan")
	}
	if index < 0 || index >= len(t.plan.Steps) {
		return Plan{}, fmt.Errorf("step index %d out of range", index)
	}
	if description != nil {
		t.plan.Steps[index].Description = *description
	}
	if status != nil {
		switch *status {
		case StepStatusPending, StepStatusCompleted:
			t.plan.Steps[index].Status = *status
		default:
			return Plan{}, fmt.Errorf("unknown step status %q", *status)
		}
	}
	return t.snapshot(), nil
}

func (t *PlanTracker) Current() (Plan, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.plan == nil {
		return Plan{}, false
	}
	return t.snapshot(), true
}

type weatherArgs struct {
	Location string `json:"location"`
}

func NewWeatherTool() *Tool {
	return &Tool{
		Name:        "get_weather",
		Description: "Get the weather for a given location.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"location": {"type": "string", "description": "The location to get the weather for."}
			},
			"required": ["location"]
		}`),
		Run: func(_ context.Context, args json.RawMessage) (any, error) {
			var in weatherArgs
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid get_weather arguments: %w", err)
			}
			return WeatherInfo{
				Temperature: 20,
				Conditions:  "sunny",
				Humidity:    50,
				WindSpeed:   10,
				FeelsLike:   25,
			}, nil
		},
	}
}

type createPlanArgs struct {
	Steps []string `json:"steps"`
}

func NewCreatePlanTool(tracker *PlanTracker) *Tool {
	return &Tool{
		Name:        "create_plan",
		Description: "Create a plan with multiple steps.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"steps": {"type": "array", "items": {"type": "string"}}
			},
			"required": ["steps"]
		}`),
		Run: func(_ context.Context, args json.RawMessage) (any, error) {
			var in createPlanArgs
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid create_plan arguments: %w", err)
			}
			return tracker.CreatePlan(in.Steps)
		},
	}
}

type updatePlanStepArgs struct {
	Index       int         `json:"index"`
	Description *string     `json:"description,omitempty"`
	Status      *StepStatus `json:"status,omitempty"`
}

func NewUpdatePlanStepTool(tracker *PlanTracker) *Tool {
	return &Tool{
		Name:        "update_plan_step",
		Description: "Update a step in the plan with new description or status.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"index": {"type": "integer"},
				"description": {"type": "string"},
				"status": {"type": "string", "enum": ["Pending", "Completed"]}
			},
			"required": ["index"]
		}`),
		Run: func(_ context.Context, args json.RawMessage) (any, error) {
			var in updatePlanStepArgs
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid update_plan_step arguments: %w", err)
			}
			return tracker.UpdateStep(in.Index, in.Description, in.Status)
		},
	}
}

type writeDocumentArgs struct {
	Document string `json:"document"`
}

func NewWriteDocumentTool() *Tool {
	return &Tool{
		Name:        "write_document",
		Description: "Write a document. Use markdown formatting to format the document.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"document": {"type": "string", "description": "The document content to write."}
			},
			"required": ["document"]
		}`),
		Run: func(_ context.Context, args json.RawMessage) (any, error) {
			var in writeDocumentArgs
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid write_document arguments: %w", err)
			}
			// The document itself travels via DocumentState updates.
			return "Document written successfully", nil
		},
	}
}
