package agui

import (
	"context"
	"encoding/json"
	"fmt"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompleter is the boundary to the hosted chat-completion API. The
// subsystem never talks to the provider directly, so tests and offline runs
// can substitute a fake.
type ChatCompleter interface {
	Complete(ctx context.Context, instructions string, messages []Message) (Message, error)
}

// Agent is a named, described chat agent with optional tool bindings.
type Agent struct {
	Name         string
	Description  string
	Instructions string

	tools     *Registry
	completer ChatCompleter
}

func (a *Agent) ToolNames() []string { return a.tools.Names() }

func (a *Agent) Tool(name string) (*Tool, bool) { return a.tools.Get(name) }

// InvokeTool runs one of the agent's bound tools with JSON arguments.
func (a *Agent) InvokeTool(ctx context.Context, name string, args json.RawMessage) (any, error) {
	tool, ok := a.tools.Get(name)
	if !ok {
		return nil, fmt.Errorf("agent %s has no tool %s", a.Name, name)
	}
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	return tool.Run(ctx, args)
}

// Chat forwards the conversation to the completion backend with the agent's
// instructions prepended.
func (a *Agent) Chat(ctx context.Context, messages []Message) (Message, error) {
	if a.completer == nil {
		return Message{}, fmt.Errorf("agent %s has no completion backend configured", a.Name)
	}
	return a.completer.Complete(ctx, a.Instructions, messages)
}

const agenticUIInstructions = `When planning use tools only, without any other messages.
IMPORTANT:
- Use the ` + "`create_plan`" + ` tool to set the initial state of the steps
- Use the ` + "`update_plan_step`" + ` tool to update the status of each step
- Do NOT repeat the plan or summarise it in a message
- Do NOT confirm the creation or updates in a message
- Do NOT ask the user for additional information or next steps
- Do NOT leave a plan hanging, always complete the plan via ` + "`update_plan_step`" + ` if one is ongoing.
- Continue calling update_plan_step until all steps are marked as completed.

Only one plan can be active at a time, so do not call the ` + "`create_plan`" + ` tool
again until all the steps in current plan are completed.`

const predictiveStateInstructions = `You are a document editor assistant. When asked to write or edit content:

IMPORTANT:
- Use the ` + "`write_document`" + ` tool with the full document text in Markdown format
- Format the document extensively so it's easy to read
- You can use all kinds of markdown (headings, lists, bold, etc.)
- However, do NOT use italic or strike-through formatting
- You MUST write the full document, even when changing only a few words
- When making edits to the document, try to make them minimal - do not change every word
- Keep stories SHORT!
- After you are done writing the document you MUST call a confirm_changes tool after you call write_document

After the user confirms the changes, provide a brief summary of what you wrote.`

// Factory produces the demo agents. It owns the shared plan tracker and is
// constructed once at startup with the injected completion backend.
type Factory struct {
	completer ChatCompleter
	tracker   *PlanTracker
	agents    map[string]*Agent
	order     []string
}

func NewFactory(completer ChatCompleter) *Factory {
	f := &Factory{
		completer: completer,
		tracker:   NewPlanTracker(),
		agents:    make(map[string]*Agent),
	}
	for _, a := range []*Agent{
		f.newAgent("AgenticChat", "A simple chat agent using Azure OpenAI", "", NewRegistry()),
		f.newAgent("BackendToolRenderer", "An agent that can render backend tools using Azure OpenAI", "",
			NewRegistry(NewWeatherTool())),
		f.newAgent("HumanInTheLoopAgent", "An agent that involves human feedback in its decision-making process using Azure OpenAI", "", NewRegistry()),
		f.newAgent("ToolBasedGenerativeUIAgent", "An agent that uses tools to generate user interfaces using Azure OpenAI", "", NewRegistry()),
		f.newAgent("AgenticUIAgent", "An agent that generates agentic user interfaces using Azure OpenAI", agenticUIInstructions,
			NewRegistry(NewCreatePlanTool(f.tracker), NewUpdatePlanStepTool(f.tracker))),
		f.newAgent("SharedStateAgent", "An agent that demonstrates shared state patterns using Azure OpenAI", "", NewRegistry()),
		f.newAgent("PredictiveStateUpdatesAgent", "An agent that demonstrates predictive state updates using Azure OpenAI", predictiveStateInstructions,
			NewRegistry(NewWriteDocumentTool())),
	} {
		f.agents[a.Name] = a
		f.order = append(f.order, a.Name)
	}
	return f
}

func (f *Factory) newAgent(name, description, instructions string, tools *Registry) *Agent {
	return &Agent{
		Name:         name,
		Description:  description,
		Instructions: instructions,
		tools:        tools,
		completer:    f.completer,
	}
}

func (f *Factory) Get(name string) (*Agent, bool) {
	a, ok := f.agents[name]
	return a, ok
}

func (f *Factory) Agents() []*Agent {
	out := make([]*Agent, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.agents[name])
	}
	return out
}

// PlanTracker exposes the shared planning state, mainly for the demo surface
// and tests.
func (f *Factory) PlanTracker() *PlanTracker { return f.tracker }
