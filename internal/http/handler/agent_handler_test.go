package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-samples-api/internal/agui"
)

type noopCompleter struct{}

func (noopCompleter) Complete(_ context.Context, _ string, _ []agui.Message) (agui.Message, error) {
	return agui.Message{}, nil
}

func TestAgentListEnumeratesAgents(t *testing.T) {
	h := NewAgentHandler(agui.NewFactory(noopCompleter{}))

	req := httptest.NewRequest(http.MethodGet, "/api/agents", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rr.Code, rr.Body.String())
	}
	data, _ := decodeBody(t, rr)["data"].([]any)
	if len(data) != 7 {
		t.Fatalf("expected 7 agents, got %d", len(data))
	}
	first, _ := data[0].(map[string]any)
	if first["name"] != "AgenticChat" {
		t.Errorf("first agent = %v", first["name"])
	}
	for _, raw := range data {
		entry, _ := raw.(map[string]any)
		if entry["name"] == "BackendToolRenderer" {
			tools, _ := entry["tools"].([]any)
			if len(tools) != 1 || tools[0] != "get_weather" {
				t.Errorf("BackendToolRenderer tools = %v", tools)
			}
		}
	}
}

func TestAgentListDisabledSubsystem(t *testing.T) {
	h := NewAgentHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/agents", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestAgentInvokeToolSuccess(t *testing.T) {
	h := NewAgentHandler(agui.NewFactory(noopCompleter{}))

	req := withURLParams(httptest.NewRequest(http.MethodPost,
		"/api/agents/BackendToolRenderer/tools/get_weather",
		strings.NewReader(`{"location": "Oslo"}`)),
		map[string]string{"name": "BackendToolRenderer", "tool": "get_weather"})
	rr := httptest.NewRecorder()
	h.InvokeTool(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rr.Code, rr.Body.String())
	}
	data, _ := decodeBody(t, rr)["data"].(map[string]any)
	if data["temperature"] != float64(20) || data["conditions"] != "sunny" {
		t.Errorf("weather payload = %v", data)
	}
}

func TestAgentInvokeToolUnknownAgent(t *testing.T) {
	h := NewAgentHandler(agui.NewFactory(noopCompleter{}))

	req := withURLParams(httptest.NewRequest(http.MethodPost,
		"/api/agents/NoSuchAgent/tools/get_weather", nil),
		map[string]string{"name": "NoSuchAgent", "tool": "get_weather"})
	rr := httptest.NewRecorder()
	h.InvokeTool(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestAgentInvokeToolNotBound(t *testing.T) {
	h := NewAgentHandler(agui.NewFactory(noopCompleter{}))

	req := withURLParams(httptest.NewRequest(http.MethodPost,
		"/api/agents/AgenticChat/tools/get_weather", nil),
		map[string]string{"name": "AgenticChat", "tool": "get_weather"})
	rr := httptest.NewRecorder()
	h.InvokeTool(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestAgentInvokeToolDomainError(t *testing.T) {
	h := NewAgentHandler(agui.NewFactory(noopCompleter{}))

	// update_plan_step with no active plan fails inside the tool.
	req := withURLParams(httptest.NewRequest(http.MethodPost,
		"/api/agents/AgenticUIAgent/tools/update_plan_step",
		strings.NewReader(`{"index": 0, "status": "Completed"}`)),
		map[string]string{"name": "AgenticUIAgent", "tool": "update_plan_step"})
	rr := httptest.NewRecorder()
	h.InvokeTool(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body %s", rr.Code, rr.Body.String())
	}
}

func TestAgentInvokeToolMalformedArguments(t *testing.T) {
	h := NewAgentHandler(agui.NewFactory(noopCompleter{}))

	req := withURLParams(httptest.NewRequest(http.MethodPost,
		"/api/agents/BackendToolRenderer/tools/get_weather",
		strings.NewReader(`{"location":`)),
		map[string]string{"name": "BackendToolRenderer", "tool": "get_weather"})
	rr := httptest.NewRecorder()
	h.InvokeTool(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
