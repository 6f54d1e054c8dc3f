// Package agui hosts the agentic-UI demo subsystem: named chat agents with
// tool bindings and the JSON state shapes shared with the front-end protocol.
package agui

import "encoding/json"

type StepStatus string

const (
	StepStatusPending   StepStatus = "Pending"
	StepStatusCompleted StepStatus = "Completed"
)

type Step struct {
	Description string     `json:"description"`
	Status      StepStatus `json:"status"`
}

type Plan struct {
	Steps []Step `json:"steps"`
}

// Completed reports whether every step has been marked completed.
func (p Plan) Completed() bool {
	for _, s := range p.Steps {
		if s.Status != StepStatusCompleted {
			return false
		}
	}
	return true
}

type DocumentState struct {
	Document string `json:"document"`
}

type WeatherInfo struct {
	Temperature float64 `json:"temperature"`
	Conditions  string  `json:"conditions"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	FeelsLike   float64 `json:"feelsLike"`
}

type Ingredient struct {
	Icon   string `json:"icon"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type Recipe struct {
	SkillLevel         string       `json:"skill_level"`
	SpecialPreferences []string     `json:"special_preferences"`
	CookingTime        string       `json:"cooking_time"`
	Ingredients        []Ingredient `json:"ingredients"`
	Instructions       []string     `json:"instructions"`
}

type RecipeResponse struct {
	Recipe Recipe `json:"recipe"`
}

// JSONPatchOperation is the minimal patch shape used by predictive state
// updates streamed to the client.
type JSONPatchOperation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}
