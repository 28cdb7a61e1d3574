// Package openai is a thin OpenAI-compatible HTTP client: embeddings for
// C1's dense path, a prompted scoring call for C1's cross-encoder path, and
// a tool-calling chat completion for the Online Graph's Planner. Adapted
// from the teacher's general-purpose client — trimmed to the three calls
// this domain actually needs (no image/video/conversation generation) —
// keeping its retry/backoff and request-signing idioms.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/pkg/httpx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type Client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	chatModel  string
	embedModel string
	httpClient *http.Client
	maxRetries int
}

// NewClient reads OPENAI_API_KEY, OPENAI_BASE_URL, OPENAI_CHAT_MODEL and
// OPENAI_EMBED_MODEL, mirroring the teacher client's env-driven config.
func NewClient(log *logger.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	baseURL := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	chatModel := strings.TrimSpace(os.Getenv("OPENAI_CHAT_MODEL"))
	if chatModel == "" {
		chatModel = "gpt-4o-mini"
	}
	embedModel := strings.TrimSpace(os.Getenv("OPENAI_EMBED_MODEL"))
	if embedModel == "" {
		embedModel = "text-embedding-3-small"
	}

	timeoutSec := 60
	if v := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}
	maxRetries := 3
	if v := strings.TrimSpace(os.Getenv("OPENAI_MAX_RETRIES")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	return &Client{
		log:        log.With("service", "OpenAIClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		chatModel:  chatModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

func (c *Client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	backoff := 500 * time.Millisecond
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("openai: decode response: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}
		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return err
		}
		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)
		if c.log != nil {
			c.log.Warn("openai request retrying", "path", path, "attempt", attempt+1, "sleep", sleepFor.String(), "error", err.Error())
		}
		time.Sleep(sleepFor)
		backoff *= 2
	}
	return fmt.Errorf("openai: unreachable retry loop")
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string          { return fmt.Sprintf("openai: http %d: %s", e.StatusCode, e.Body) }
func (e *httpError) HTTPStatusCode() int     { return e.StatusCode }

// -------------------- Embeddings --------------------

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed satisfies embedding.Client. Adapted from the teacher's Embed: an
// empty string is substituted with a single space so the API never
// rejects the whole batch over one blank element (validation of genuinely
// empty input happens one layer up, in the Gateway).
func (c *Client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}
	clean := make([]string, len(inputs))
	for i, s := range inputs {
		if strings.TrimSpace(s) == "" {
			clean[i] = " "
		} else {
			clean[i] = s
		}
	}

	var resp embeddingsResponse
	err := c.do(ctx, http.MethodPost, "/v1/embeddings", embeddingsRequest{Model: c.embedModel, Input: clean}, &resp)
	if err != nil {
		return nil, err
	}
	out := make([][]float32, len(clean))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			continue
		}
		out[d.Index] = d.Embedding
	}
	for i, v := range out {
		if v == nil {
			return nil, fmt.Errorf("openai: missing embedding at index %d", i)
		}
	}
	return out, nil
}

// -------------------- Cross-encoder scoring --------------------

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Tools       []toolDef     `json:"tools,omitempty"`
	ToolChoice  string        `json:"tool_choice,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string     `json:"content"`
			ToolCalls []toolCall `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

const scoringPromptTemplate = `You score how relevant each candidate text is to a query, on a scale from 0.0 (irrelevant) to 1.0 (perfectly relevant).
Query: %s

Respond with ONLY a JSON array of numbers, one per candidate, in the same order as given. No prose.

Candidates:
%s`

// ScorePairs satisfies embedding.Client's RerankScore wire call: it asks
// the chat model for a numeric relevance score per (query, text) pair and
// parses a JSON array response, adapted from the teacher's GenerateJSON
// pattern (structured-output-by-prompt rather than a typed JSON schema
// mode, since this client only needs a flat number array).
func (c *Client) ScorePairs(ctx context.Context, query string, texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var sb strings.Builder
	for i, t := range texts {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, t)
	}
	prompt := fmt.Sprintf(scoringPromptTemplate, query, sb.String())

	req := chatRequest{
		Model:       c.chatModel,
		Temperature: 0,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
	}
	var resp chatResponse
	if err := c.do(ctx, http.MethodPost, "/v1/chat/completions", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty chat response")
	}
	content := extractJSONArray(resp.Choices[0].Message.Content)
	var scores []float64
	if err := json.Unmarshal([]byte(content), &scores); err != nil {
		return nil, fmt.Errorf("openai: decode scores: %w; raw=%s", err, content)
	}
	if len(scores) != len(texts) {
		return nil, fmt.Errorf("openai: expected %d scores, got %d", len(texts), len(scores))
	}
	return scores, nil
}

// extractJSONArray trims any prose the model wraps the array in, taking
// the substring between the first '[' and the last ']'.
func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

// -------------------- Tool-calling chat --------------------

type toolDef struct {
	Type     string       `json:"type"`
	Function functionSpec `json:"function"`
}

type functionSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type toolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// ToolSchema describes one callable tool for Chat.
type ToolSchema struct {
	Name        string
	Description string
	ArgName     string // the single string argument's name, e.g. "query" or "content"
}

// ToolCallResult is one parsed tool invocation the model requested.
type ToolCallResult struct {
	Name string
	Arg  string
}

// Chat invokes the chat model bound to the given tools and returns every
// tool call it requested plus its final textual message (if any).
func (c *Client) Chat(ctx context.Context, systemPrompt, userText string, tools []ToolSchema) ([]ToolCallResult, string, error) {
	toolDefs := make([]toolDef, len(tools))
	for i, t := range tools {
		toolDefs[i] = toolDef{
			Type: "function",
			Function: functionSpec{
				Name:        t.Name,
				Description: t.Description,
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						t.ArgName: map[string]any{"type": "string"},
					},
					"required": []string{t.ArgName},
				},
			},
		}
	}

	req := chatRequest{
		Model:       c.chatModel,
		Temperature: 0.2,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
		Tools:      toolDefs,
		ToolChoice: "auto",
	}

	var resp chatResponse
	if err := c.do(ctx, http.MethodPost, "/v1/chat/completions", req, &resp); err != nil {
		return nil, "", err
	}
	if len(resp.Choices) == 0 {
		return nil, "", fmt.Errorf("openai: empty chat response")
	}
	msg := resp.Choices[0].Message

	argNameByTool := make(map[string]string, len(tools))
	for _, t := range tools {
		argNameByTool[t.Name] = t.ArgName
	}

	calls := make([]ToolCallResult, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		var args map[string]string
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			continue
		}
		argName := argNameByTool[tc.Function.Name]
		calls = append(calls, ToolCallResult{Name: tc.Function.Name, Arg: args[argName]})
	}
	return calls, msg.Content, nil
}
