package planner

import (
	"strings"
	"testing"
)

func TestSystemPromptMentionsAllTools(t *testing.T) {
	for _, name := range []string{"retrieve_short_term", "retrieve_long_term", "retrieve_healthcare", "insert_statement"} {
		if !strings.Contains(SystemPrompt, name) {
			t.Fatalf("system prompt missing mention of tool %q", name)
		}
	}
}

func TestToolSchemasCoverAllFourTools(t *testing.T) {
	want := map[string]bool{
		ToolRetrieveLongTerm:   false,
		ToolRetrieveHealthcare: false,
		ToolRetrieveShortTerm:  false,
		ToolInsertStatement:    false,
	}
	for _, s := range toolSchemas {
		want[s.Name] = true
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("tool schema missing for %q", name)
		}
	}
}
