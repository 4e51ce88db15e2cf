package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/kingrea/orgweaver/internal/position"
	"github.com/kingrea/orgweaver/internal/rollup"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

const systemPrompt = "You are an expert in organizational structure and design. Always answer with a single JSON object."

const summarizePrompt = `You are given the original and revised organization hierarchies in JSON format.
Summarize the changes, focusing on the financial and structural implications.
Identify the change in total proforma cost, the kinds of jobs added, the kinds of jobs removed and the kinds of jobs covered in the revised hierarchy.
Keep the summary concise and easy to understand.

Respond with JSON of the form:
{"summary": string, "costChange": number, "jobsAdded": [string], "jobsRemoved": [string], "jobsCovered": [string]}

Original Hierarchy: %s
Revised Hierarchy: %s`

const recommendPrompt = `Analyze the organization hierarchy below and recommend optimizations based on organizational structure best practices, with the organizational goals in mind.
Each recommendation names the area (department or division) it applies to, describes the optimization with specific reassignments, role changes or structural adjustments, and states its potential impact.

Respond with JSON of the form:
{"summary": string, "recommendations": [{"area": string, "optimization": string, "potentialImpact": string}]}

Organization Hierarchy:
%s

Organizational Goals:
%s`

// Options configures the OpenAI-backed advisor.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAI implements Advisor with a chat completion endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI returns an advisor for opts. A blank key yields ErrUnavailable.
func NewOpenAI(opts Options) (*OpenAI, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, ErrUnavailable
	}
	cfg := openai.DefaultConfig(key)
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.BaseURL = base
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

// New picks the backend named by provider, falling back to Unavailable when
// the provider is "none" or cannot be set up.
func New(provider string, opts Options) Advisor {
	if strings.EqualFold(strings.TrimSpace(provider), "none") {
		return Unavailable{}
	}
	client, err := NewOpenAI(opts)
	if err != nil {
		return Unavailable{}
	}
	return client
}

// Model returns the configured model name.
func (o *OpenAI) Model() string { return o.model }

func (o *OpenAI) Summarize(ctx context.Context, before, after []position.Position) (Summary, error) {
	original, err := json.Marshal(nonNil(before))
	if err != nil {
		return Summary{}, fmt.Errorf("advisor: encode original hierarchy: %w", err)
	}
	revised, err := json.Marshal(nonNil(after))
	if err != nil {
		return Summary{}, fmt.Errorf("advisor: encode revised hierarchy: %w", err)
	}
	var out Summary
	if err := o.complete(ctx, fmt.Sprintf(summarizePrompt, original, revised), &out); err != nil {
		return Summary{}, fmt.Errorf("advisor: summarize: %w", err)
	}
	local := rollup.Diff(before, after)
	if out.JobsAdded == nil {
		out.JobsAdded = local.JobsAdded
	}
	if out.JobsRemoved == nil {
		out.JobsRemoved = local.JobsRemoved
	}
	if out.JobsCovered == nil {
		out.JobsCovered = local.JobsCovered
	}
	return out, nil
}

func (o *OpenAI) Recommend(ctx context.Context, records []position.Position, goals string) (Recommendations, error) {
	hierarchy, err := json.MarshalIndent(nonNil(records), "", "  ")
	if err != nil {
		return Recommendations{}, fmt.Errorf("advisor: encode hierarchy: %w", err)
	}
	var out Recommendations
	if err := o.complete(ctx, fmt.Sprintf(recommendPrompt, hierarchy, goals), &out); err != nil {
		return Recommendations{}, fmt.Errorf("advisor: recommend: %w", err)
	}
	if out.Recommendations == nil {
		out.Recommendations = []Recommendation{}
	}
	return out, nil
}

func (o *OpenAI) complete(ctx context.Context, prompt string, out any) error {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return err
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("no choices returned")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return fmt.Errorf("empty response")
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func nonNil(records []position.Position) []position.Position {
	if records == nil {
		return []position.Position{}
	}
	return records
}
