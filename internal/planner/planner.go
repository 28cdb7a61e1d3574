// Package planner is the external Planner collaborator the Online Graph's
// agent node delegates to: a tool-calling LLM loop bound to four retrieval
// and insertion tools. The default implementation issues one chat
// completion per turn against the platform openai client.
package planner

import (
	"context"

	"github.com/yungbote/neurobridge-backend/internal/platform/openai"
)

// Tool names the agent node may receive back from a Plan call.
const (
	ToolRetrieveLongTerm  = "retrieve_long_term"
	ToolRetrieveHealthcare = "retrieve_healthcare"
	ToolRetrieveShortTerm = "retrieve_short_term"
	ToolInsertStatement   = "insert_statement"
)

// ToolCall is one tool invocation the Planner requested, with its single
// string argument (a query for the retrieve_* tools, content for insert).
type ToolCall struct {
	Name string
	Arg  string
}

// Plan is the Planner's response for one turn: zero or more tool calls to
// execute, plus any final textual message (surfaced for diagnostics only;
// the graph's output contract never returns free text to the caller).
type Plan struct {
	ToolCalls []ToolCall
	Message   string
}

// Planner is the external collaborator bound with the four memory tools.
type Planner interface {
	Plan(ctx context.Context, systemPrompt, userText string) (Plan, error)
}

// SystemPrompt is the default instruction bound to the agent: a
// companion-memory agent that retrieves relevant memory on questions and
// persists new rememberable statements, combining tools freely in one turn.
const SystemPrompt = `You are a memory agent for an elder-care companion. You help recall things the person has previously told their companion, and you record new things they tell you now.

On a question, or whenever recalling prior context would help you answer well, call one or more of retrieve_short_term, retrieve_long_term, retrieve_healthcare with a focused query describing what to look up. Pick the memory buckets that plausibly hold the answer: short-term for recent day-to-day events, long-term for biography/relationships/preferences, healthcare for medical history and care details.

Whenever the person shares something worth remembering — an event, a fact about their day, a symptom, a preference — call insert_statement with the statement to record, in addition to any retrieval calls.

You may call multiple tools in the same turn. If nothing needs retrieving or recording, make no tool calls.`

var toolSchemas = []openai.ToolSchema{
	{Name: ToolRetrieveLongTerm, Description: "Search long-term memory (biography, relationships, preferences) for a query.", ArgName: "query"},
	{Name: ToolRetrieveHealthcare, Description: "Search healthcare memory (medical history, medications, appointments) for a query.", ArgName: "query"},
	{Name: ToolRetrieveShortTerm, Description: "Search short-term memory (recent day-to-day events) for a query.", ArgName: "query"},
	{Name: ToolInsertStatement, Description: "Record a new statement the person shared as a short-term memory.", ArgName: "content"},
}

type openaiPlanner struct {
	client *openai.Client
}

// NewOpenAIPlanner builds the default Planner over the platform client.
func NewOpenAIPlanner(client *openai.Client) Planner {
	return &openaiPlanner{client: client}
}

func (p *openaiPlanner) Plan(ctx context.Context, systemPrompt, userText string) (Plan, error) {
	calls, message, err := p.client.Chat(ctx, systemPrompt, userText, toolSchemas)
	if err != nil {
		return Plan{}, err
	}
	out := make([]ToolCall, len(calls))
	for i, c := range calls {
		out[i] = ToolCall{Name: c.Name, Arg: c.Arg}
	}
	return Plan{ToolCalls: out, Message: message}, nil
}
