package v1

import "time"

// PackResult describes one cached repository pack.
type PackResult struct {
	CacheKey       string    `json:"cache_key"`
	FromCache      bool      `json:"from_cache"`
	SourceLocation string    `json:"source_location"`
	Revision       string    `json:"revision"`
	Size           int64     `json:"size"`
	CachedAt       time.Time `json:"cached_at"`
}

// Message is one entry of a conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolCallRecord describes one tool invocation made during a chat turn.
type ToolCallRecord struct {
	Name   string      `json:"name"`
	Result *PackResult `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Usage aggregates token counts for a chat turn.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResult is the outcome of one conversation turn.
type ChatResult struct {
	Response  string           `json:"response"`
	ToolCalls []ToolCallRecord `json:"tool_calls,omitempty"`
	Usage     Usage            `json:"usage"`
	CacheKey  string           `json:"cache_key,omitempty"`
}
