package scope

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

const (
	responsesEndpoint = "https://api.openai.com/v1/responses"
	defaultModel      = "gpt-5-mini"

	scopePrompt = `You classify travel-itinerary edit instructions.
Reply with a single JSON object and nothing else:
{"days":[<day numbers>],"periods":["morning"|"afternoon"|"evening"...],"tips":<bool>,"confidence":<0..1>}
Use empty arrays and false when the instruction does not restrict that dimension.
Set confidence below 0.5 when the intended scope is unclear.`
)

// LLM infers edit scope by delegating to a hosted model through the
// responses API. It is an alternative Inferencer for instructions the
// heuristic cannot pin down; evaluators treat its errors as an
// uncertain scope, never as a hard failure.
type LLM struct {
	APIKey   string
	Model    string
	Endpoint string
	Client   *http.Client
}

// NewLLM returns an inferencer bound to the given API key.
func NewLLM(apiKey string) *LLM {
	return &LLM{
		APIKey:   apiKey,
		Model:    defaultModel,
		Endpoint: responsesEndpoint,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type responsesRequest struct {
	Model string           `json:"model"`
	Input []responsesBlock `json:"input"`
}

type responsesBlock struct {
	Role    string             `json:"role"`
	Content []responsesContent `json:"content"`
}

type responsesContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responsesResponse struct {
	OutputText []string `json:"output_text"`
	Output     []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

type scopeReply struct {
	Days       []int    `json:"days"`
	Periods    []string `json:"periods"`
	Tips       bool     `json:"tips"`
	Confidence float64  `json:"confidence"`
}

func (l *LLM) Infer(ctx context.Context, instruction string) (Descriptor, error) {
	if strings.TrimSpace(l.APIKey) == "" {
		return Descriptor{}, errors.New("scope llm: api key not configured")
	}

	payload := responsesRequest{
		Model: l.model(),
		Input: []responsesBlock{
			textBlock("system", scopePrompt),
			textBlock("user", instruction),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Descriptor{}, fmt.Errorf("scope llm: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint(), bytes.NewReader(body))
	if err != nil {
		return Descriptor{}, fmt.Errorf("scope llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+l.APIKey)

	resp, err := l.client().Do(req)
	if err != nil {
		return Descriptor{}, fmt.Errorf("scope llm: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return Descriptor{}, fmt.Errorf("scope llm: api error: %s", resp.Status)
	}

	var parsed responsesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Descriptor{}, fmt.Errorf("scope llm: decode response: %w", err)
	}

	text := strings.TrimSpace(strings.Join(parsed.OutputText, "\n"))
	if text == "" {
		text = fallbackOutput(parsed)
	}
	if text == "" {
		return Descriptor{}, errors.New("scope llm: empty reply")
	}

	return parseScopeReply(text)
}

func parseScopeReply(text string) (Descriptor, error) {
	// Models sometimes wrap JSON in code fences or prose.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Descriptor{}, fmt.Errorf("scope llm: no JSON object in reply %q", text)
	}

	var reply scopeReply
	if err := json.Unmarshal([]byte(text[start:end+1]), &reply); err != nil {
		return Descriptor{}, fmt.Errorf("scope llm: parse reply: %w", err)
	}

	d := Descriptor{
		Tips:       reply.Tips,
		Confidence: reply.Confidence,
	}
	for _, n := range reply.Days {
		if n > 0 {
			d.Days = append(d.Days, n)
		}
	}
	sort.Ints(d.Days)
	for _, p := range reply.Periods {
		p = strings.ToLower(strings.TrimSpace(p))
		switch p {
		case "morning", "afternoon", "evening":
			d.Periods = appendUnique(d.Periods, p)
		}
	}
	if !d.Targeted() {
		d.Broad = true
	}
	if d.Confidence < 0 {
		d.Confidence = 0
	}
	if d.Confidence > 1 {
		d.Confidence = 1
	}
	return d, nil
}

func textBlock(role, text string) responsesBlock {
	return responsesBlock{
		Role:    role,
		Content: []responsesContent{{Type: "input_text", Text: text}},
	}
}

func fallbackOutput(parsed responsesResponse) string {
	for _, msg := range parsed.Output {
		for _, block := range msg.Content {
			if block.Type == "output_text" && strings.TrimSpace(block.Text) != "" {
				return strings.TrimSpace(block.Text)
			}
		}
	}
	return ""
}

func (l *LLM) model() string {
	if l.Model != "" {
		return l.Model
	}
	return defaultModel
}

func (l *LLM) endpoint() string {
	if l.Endpoint != "" {
		return l.Endpoint
	}
	return responsesEndpoint
}

func (l *LLM) client() *http.Client {
	if l.Client != nil {
		return l.Client
	}
	return &http.Client{Timeout: 15 * time.Second}
}
