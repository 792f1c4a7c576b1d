package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"jarvis/internal/domain"
	domainrelay "jarvis/internal/domain/services/relay"
)

// Provider implements the relay Provider interface over the Gemini API.
type Provider struct {
	client *genai.Client
	model  string
}

// NewProvider creates a Gemini provider with the given API key and model.
func NewProvider(ctx context.Context, apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("gemini model name is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Provider{client: client, model: model}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "gemini"
}

// Close releases the underlying client.
func (p *Provider) Close() error {
	return p.client.Close()
}

// Generate performs a unary generation call and returns the full text.
func (p *Provider) Generate(ctx context.Context, req *domainrelay.GenerateRequest) (string, error) {
	session, parts, err := p.prepare(req)
	if err != nil {
		return "", err
	}

	resp, err := session.SendMessage(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}

	text, blocked := responseText(resp)
	if text == "" {
		if blocked {
			return "", domain.ErrContentBlocked
		}
		return "", domain.ErrEmptyResponse
	}
	return text, nil
}

// prepare converts the assembled payload into a chat session. All turns
// but the last replay as history; the last turn's parts become the
// outgoing message.
func (p *Provider) prepare(req *domainrelay.GenerateRequest) (*genai.ChatSession, []genai.Part, error) {
	if len(req.Turns) == 0 {
		return nil, nil, fmt.Errorf("empty provider payload")
	}

	model := p.client.GenerativeModel(p.model)
	model.SetTemperature(req.Params.Temperature)
	model.SetTopP(req.Params.TopP)
	model.SetTopK(req.Params.TopK)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	n := len(req.Turns)
	history := make([]*genai.Content, 0, n-1)
	for _, turn := range req.Turns[:n-1] {
		history = append(history, &genai.Content{
			Role:  turn.Role,
			Parts: convertParts(turn.Parts),
		})
	}

	session := model.StartChat()
	session.History = history

	return session, convertParts(req.Turns[n-1].Parts), nil
}

func convertParts(parts []domainrelay.Part) []genai.Part {
	out := make([]genai.Part, 0, len(parts))
	for _, part := range parts {
		if part.Blob != nil {
			out = append(out, genai.Blob{
				MIMEType: part.Blob.MIMEType,
				Data:     part.Blob.Data,
			})
			continue
		}
		out = append(out, genai.Text(part.Text))
	}
	return out
}

// responseText flattens the first candidate's text parts and reports
// whether the upstream withheld output on safety grounds.
func responseText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil {
		return "", false
	}

	blocked := resp.PromptFeedback != nil &&
		resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified

	var b strings.Builder
	if len(resp.Candidates) > 0 {
		cand := resp.Candidates[0]
		if cand.FinishReason == genai.FinishReasonSafety {
			blocked = true
		}
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					b.WriteString(string(text))
				}
			}
		}
	}

	return b.String(), blocked
}
