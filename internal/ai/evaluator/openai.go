package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Abraxas-365/shortlist/pkg/logx"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
)

const systemPrompt = `You are a recruiting analyst. You receive one applicant as JSON with the keys
"personal", "experience" and "salary".

Respond with a JSON object with exactly these keys:
- "summary": at most 75 words describing the applicant
- "score": an integer from 1 to 10 rating overall candidate quality
- "issues": missing or inconsistent data, or "None"
- "follow_ups": up to three follow-up questions as a list of strings

Return ONLY the JSON object.`

// OpenAIEvaluator reviews documents with a chat completion in JSON mode
type OpenAIEvaluator struct {
	client *openai.Client
	model  string
}

// NewOpenAIEvaluator creates an evaluator; retries are left to the SDK
func NewOpenAIEvaluator(cfg Config) *OpenAIEvaluator {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(retries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &OpenAIEvaluator{
		client: &client,
		model:  model,
	}
}

type evaluationResponse struct {
	Summary   string          `json:"summary"`
	Score     float64         `json:"score"`
	Issues    json.RawMessage `json:"issues"`
	FollowUps json.RawMessage `json:"follow_ups"`
}

func (e *OpenAIEvaluator) Evaluate(ctx context.Context, document string) (*applicant.Evaluation, error) {
	completion, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(document),
		},
		Model: e.model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		Temperature: openai.Float(0.2),
		MaxTokens:   openai.Int(600),
	})
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeRequestFailed, err).WithDetail("model", e.model)
	}

	if len(completion.Choices) == 0 {
		return nil, ErrRegistry.New(CodeInvalidResponse).WithDetail("reason", "no choices")
	}

	content := completion.Choices[0].Message.Content
	var resp evaluationResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return nil, ErrRegistry.NewWithCause(CodeInvalidResponse, err).WithDetail("content", content)
	}

	logx.Debugf("Evaluation received: model=%s score=%g tokens=%d", e.model, resp.Score, completion.Usage.TotalTokens)

	return &applicant.Evaluation{
		Summary:   strings.TrimSpace(resp.Summary),
		Score:     resp.Score,
		Issues:    flatten(resp.Issues, "None"),
		FollowUps: flatten(resp.FollowUps, ""),
	}, nil
}

// flatten accepts either a string or a list of strings; lists become bullets
func flatten(raw json.RawMessage, empty string) string {
	if len(raw) == 0 || string(raw) == "null" {
		return empty
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return empty
		}
		return strings.TrimSpace(s)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return empty
		}
		lines := make([]string, 0, len(list))
		for _, item := range list {
			lines = append(lines, fmt.Sprintf("• %s", strings.TrimSpace(item)))
		}
		return strings.Join(lines, "\n")
	}

	return strings.TrimSpace(string(raw))
}
