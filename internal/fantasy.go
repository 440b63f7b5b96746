package internal

import (
	"context"
	"fmt"
	"reflect"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"
	"charm.land/fantasy/providers/openai"
	"charm.land/fantasy/providers/openrouter"
	"charm.land/fantasy/schema"
)

type FantasyConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
}

var _ Provider = (*FantasyProvider)(nil)

type FantasyProvider struct {
	model fantasy.LanguageModel
	name  string
}

func NewFantasyProvider(ctx context.Context, cfg FantasyConfig) (*FantasyProvider, error) {
	var provider fantasy.Provider
	var err error

	switch cfg.Provider {
	case "openai":
		opts := []openai.Option{openai.WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		provider, err = openai.New(opts...)

	case "anthropic":
		opts := []anthropic.Option{anthropic.WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		provider, err = anthropic.New(opts...)

	case "openrouter":
		opts := []openrouter.Option{openrouter.WithAPIKey(cfg.APIKey)}
		provider, err = openrouter.New(opts...)

	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	model, err := provider.LanguageModel(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("get language model: %w", err)
	}

	return &FantasyProvider{
		model: model,
		name:  cfg.Provider,
	}, nil
}

func (p *FantasyProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	call := fantasy.Call{
		Prompt: toPrompt(req.Messages),
		Tools:  toTools(req.Tools),
	}

	resp, err := p.model.Generate(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	out := &ChatResponse{
		FinishReason: string(resp.FinishReason),
		Usage: Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}

	for _, part := range resp.Content {
		switch c := part.(type) {
		case fantasy.TextContent:
			out.Text += c.Text
		case fantasy.ToolCallContent:
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        c.ToolCallID,
				Name:      c.ToolName,
				Arguments: c.Input,
			})
		}
	}

	return out, nil
}

func toPrompt(messages []ChatMessage) fantasy.Prompt {
	prompt := make(fantasy.Prompt, 0, len(messages))

	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			prompt = append(prompt, fantasy.NewSystemMessage(m.Content))

		case RoleUser:
			prompt = append(prompt, fantasy.NewUserMessage(m.Content))

		case RoleAssistant:
			var parts []fantasy.MessagePart
			if m.Content != "" {
				parts = append(parts, fantasy.TextPart{Text: m.Content})
			}
			for _, tc := range m.ToolCalls {
				parts = append(parts, fantasy.ToolCallPart{
					ToolCallID: tc.ID,
					ToolName:   tc.Name,
					Input:      tc.Arguments,
				})
			}
			prompt = append(prompt, fantasy.Message{
				Role:    fantasy.MessageRoleAssistant,
				Content: parts,
			})

		case RoleTool:
			prompt = append(prompt, fantasy.Message{
				Role: fantasy.MessageRoleTool,
				Content: []fantasy.MessagePart{
					fantasy.ToolResultPart{
						ToolCallID: m.ToolCallID,
						Output:     fantasy.ToolResultOutputContentText{Text: m.Content},
					},
				},
			})
		}
	}

	return prompt
}

func toTools(defs []ToolDefinition) []fantasy.Tool {
	if len(defs) == 0 {
		return nil
	}

	tools := make([]fantasy.Tool, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, fantasy.FunctionTool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: schema.ToMap(schema.Generate(reflect.TypeOf(def.Args))),
		})
	}
	return tools
}
