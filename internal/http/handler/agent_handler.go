package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ai-samples-api/internal/agui"
	"ai-samples-api/internal/http/response"
	"ai-samples-api/internal/observability"
)

// AgentSummary is the list representation of an agent.
type AgentSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tools       []string `json:"tools"`
}

type AgentHandler struct {
	factory *agui.Factory
}

// NewAgentHandler accepts a nil factory when the agent subsystem is disabled;
// requests then answer 503.
func NewAgentHandler(factory *agui.Factory) *AgentHandler {
	return &AgentHandler{factory: factory}
}

func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.factory == nil {
		response.Problem(w, r, http.StatusServiceUnavailable, "agent subsystem is not configured")
		return
	}
	agents := h.factory.Agents()
	out := make([]AgentSummary, 0, len(agents))
	for _, a := range agents {
		out = append(out, AgentSummary{
			Name:        a.Name,
			Description: a.Description,
			Tools:       a.ToolNames(),
		})
	}
	response.Success(w, r, http.StatusOK, out, "")
}

func (h *AgentHandler) InvokeTool(w http.ResponseWriter, r *http.Request) {
	if h.factory == nil {
		response.Problem(w, r, http.StatusServiceUnavailable, "agent subsystem is not configured")
		return
	}

	name := chi.URLParam(r, "name")
	toolName := chi.URLParam(r, "tool")

	agent, ok := h.factory.Get(name)
	if !ok {
		response.Problem(w, r, http.StatusNotFound, "agent not found")
		return
	}
	if _, ok := agent.Tool(toolName); !ok {
		response.Problem(w, r, http.StatusNotFound, "agent does not provide this tool")
		return
	}

	args, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		response.Problem(w, r, http.StatusBadRequest, "could not read request body")
		return
	}
	if len(args) > 0 && !json.Valid(args) {
		response.Problem(w, r, http.StatusBadRequest, "tool arguments must be a JSON object")
		return
	}

	start := time.Now()
	result, err := agent.InvokeTool(r.Context(), toolName, args)
	dur := time.Since(start)
	if err != nil {
		observability.RecordAgentToolInvocation(r.Context(), name, toolName, "failure", dur)
		response.Problem(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	observability.Audit(r, "agents.tool_invoked", "agent", name, "tool", toolName)
	observability.RecordAgentToolInvocation(r.Context(), name, toolName, "success", dur)
	response.Success(w, r, http.StatusOK, result, "")
}
