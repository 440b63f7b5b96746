package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

const ToolPackRepository = "pack_repository"

// PackRepositoryArgs is the validated argument record for the one
// tool the model may call.
type PackRepositoryArgs struct {
	RepoURL      string `json:"repo_url" description:"Git repository URL to ingest as context"`
	ForceRefresh bool   `json:"force_refresh,omitempty" description:"Re-ingest even if a cached copy exists"`
}

const systemPromptNoContext = `You are a coding assistant. When the user asks about a ` +
	`specific source repository you do not have context for, call the ` +
	ToolPackRepository + ` tool with its URL to load it. Otherwise answer directly.`

const systemPromptWithContext = `You are a coding assistant. The packed contents of the ` +
	`repository under discussion follow. Ground your answers in this context.

%s`

type ChatInput struct {
	Message  string
	CacheKey string
	History  []ChatMessage
}

// ToolInvocation records one requested tool call and its outcome.
type ToolInvocation struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
	Result    *PackOutput     `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type ChatOutput struct {
	Response  string           `json:"response"`
	ToolCalls []ToolInvocation `json:"tool_calls,omitempty"`
	Usage     Usage            `json:"usage"`
	CacheKey  string           `json:"cache_key,omitempty"`
}

// ChatService drives one conversation turn: preload context, first
// model call with tools, execute requested tool calls sequentially,
// second model call with fresh context, assemble the final answer.
type ChatService struct {
	provider Provider
	pipeline *PackService
	cache    *ContentCache
	logger   *log.Logger
}

func NewChatService(
	provider Provider,
	pipeline *PackService,
	cache *ContentCache,
	logger *log.Logger,
) *ChatService {
	return &ChatService{
		provider: provider,
		pipeline: pipeline,
		cache:    cache,
		logger:   logger,
	}
}

func (s *ChatService) Chat(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	if s.provider == nil {
		return nil, ErrNoProvider
	}
	if input.Message == "" {
		return nil, ErrMissingMessage
	}

	messages := make([]ChatMessage, 0, len(input.History)+1)
	messages = append(messages, input.History...)
	messages = append(messages, ChatMessage{Role: RoleUser, Content: input.Message})

	// A caller-supplied key that no longer resolves is discarded, not
	// an error: the model can re-ingest on demand.
	contextText, cacheKey := s.preloadContext(input.CacheKey)

	tools := []ToolDefinition{{
		Name:        ToolPackRepository,
		Description: "Fetch a Git repository and flatten it into a single text context",
		Args:        PackRepositoryArgs{},
	}}

	first, err := s.provider.Chat(ctx, buildRequest(messages, contextText, tools))
	if err != nil {
		return nil, fmt.Errorf("model call: %w", err)
	}

	finalText := first.Text
	usage := first.Usage
	var invocations []ToolInvocation

	// Tool calls run sequentially, in model emission order; each is
	// independent, so one failure does not abort the others.
	for _, call := range first.ToolCalls {
		inv := ToolInvocation{ID: call.ID, Name: call.Name, Arguments: json.RawMessage(call.Arguments)}

		out, execErr := s.executeTool(ctx, call)
		if execErr != nil {
			inv.Error = execErr.Error()
			invocations = append(invocations, inv)
			continue
		}
		inv.Result = out

		messages = append(messages, ChatMessage{
			Role:      RoleAssistant,
			Content:   first.Text,
			ToolCalls: []ToolCall{call},
		})
		resultJSON, _ := json.Marshal(out)
		messages = append(messages, ChatMessage{
			Role:       RoleTool,
			ToolCallID: call.ID,
			Content:    string(resultJSON),
		})

		entry, readErr := s.cache.Read(CacheKey(out.CacheKey))
		if readErr != nil {
			inv.Error = fmt.Sprintf("reload packed content: %v", readErr)
			invocations = append(invocations, inv)
			continue
		}

		second, callErr := s.provider.Chat(ctx, buildRequest(messages, string(entry.Content), nil))
		if callErr != nil {
			// The first response stands, degraded.
			s.logger.Warn("follow-up model call failed", "tool_call", call.ID, "err", callErr)
			inv.Error = fmt.Sprintf("follow-up model call: %v", callErr)
			invocations = append(invocations, inv)
			continue
		}

		finalText = second.Text
		usage = second.Usage
		cacheKey = out.CacheKey
		invocations = append(invocations, inv)
	}

	return &ChatOutput{
		Response:  finalText,
		ToolCalls: invocations,
		Usage:     usage,
		CacheKey:  cacheKey,
	}, nil
}

func (s *ChatService) preloadContext(rawKey string) (contextText, cacheKey string) {
	if rawKey == "" {
		return "", ""
	}

	key, err := ParseCacheKey(rawKey)
	if err != nil {
		s.logger.Warn("discarding malformed cache key", "key", rawKey)
		return "", ""
	}

	entry, err := s.cache.Read(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("context preload failed", "key", rawKey, "err", err)
		}
		return "", ""
	}

	return string(entry.Content), rawKey
}

func (s *ChatService) executeTool(ctx context.Context, call ToolCall) (*PackOutput, error) {
	if call.Name != ToolPackRepository {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, call.Name)
	}

	var args PackRepositoryArgs
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		return nil, fmt.Errorf("parse tool arguments: %w", err)
	}

	return s.pipeline.Process(ctx, PackInput{
		RepoURL:      args.RepoURL,
		ForceRefresh: args.ForceRefresh,
	})
}

func buildRequest(messages []ChatMessage, contextText string, tools []ToolDefinition) ChatRequest {
	system := systemPromptNoContext
	if contextText != "" {
		system = fmt.Sprintf(systemPromptWithContext, contextText)
	}

	full := make([]ChatMessage, 0, len(messages)+1)
	full = append(full, ChatMessage{Role: RoleSystem, Content: system})
	full = append(full, messages...)

	return ChatRequest{Messages: full, Tools: tools}
}
