package types

// Message is a single chat message.
type Message struct {
	// Role of the sender: system, user, or assistant.
	// example: user
	Role string `json:"role" example:"user"`
	// Message text.
	// example: Hello
	Content string `json:"content" example:"Hello"`
}

// ChatCompletionRequest is the OpenAI-compatible chat completion payload.
type ChatCompletionRequest struct {
	// Model identifier; informational, the server serves a single model.
	// example: llama-3-8b
	Model string `json:"model,omitempty" example:"llama-3-8b"`
	// Conversation so far. Must be non-empty.
	Messages []Message `json:"messages"`
	// Sampling temperature, 0.0 to 2.0.
	// example: 0.7
	Temperature float64 `json:"temperature" example:"0.7"`
	// Maximum number of tokens to generate, 1 to 32000.
	// example: 100
	MaxTokens int `json:"max_tokens" example:"100"`
	// Nucleus sampling probability, 0.0 to 1.0.
	// example: 1.0
	TopP float64 `json:"top_p" example:"1.0"`
	// Streaming is not supported; the field is accepted and ignored.
	Stream bool `json:"stream,omitempty"`
	// Optional stop sequences.
	Stop []string `json:"stop,omitempty"`
}

// Usage carries token accounting copied from the engine.
type Usage struct {
	// example: 10
	PromptTokens int `json:"prompt_tokens" example:"10"`
	// example: 20
	CompletionTokens int `json:"completion_tokens" example:"20"`
	// example: 30
	TotalTokens int `json:"total_tokens" example:"30"`
}

// Choice is a single completion choice.
type Choice struct {
	// example: 0
	Index   int     `json:"index" example:"0"`
	Message Message `json:"message"`
	// Why generation stopped: stop, length, or error.
	// example: stop
	FinishReason string `json:"finish_reason" example:"stop"`
}

// ChatCompletionResponse is the OpenAI-compatible completion envelope.
type ChatCompletionResponse struct {
	// Opaque unique identifier.
	// example: chatcmpl-1a2b3c4d5e6f
	ID string `json:"id" example:"chatcmpl-1a2b3c4d5e6f"`
	// example: chat.completion
	Object string `json:"object" example:"chat.completion"`
	// Creation time in unix seconds.
	// example: 1700000000
	Created int64 `json:"created" example:"1700000000"`
	// example: llama-3-8b
	Model   string   `json:"model" example:"llama-3-8b"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// example: ok
	Status string `json:"status" example:"ok"`
	// example: true
	ModelLoaded bool `json:"model_loaded" example:"true"`
}

// ModelInfo describes the served model for GET /v1/models.
type ModelInfo struct {
	// example: llama-3-8b
	ID string `json:"id" example:"llama-3-8b"`
	// example: model
	Object string `json:"object" example:"model"`
	// example: local
	OwnedBy string `json:"owned_by" example:"local"`
}

// ModelsResponse wraps the model list.
type ModelsResponse struct {
	// example: list
	Object string      `json:"object" example:"list"`
	Data   []ModelInfo `json:"data"`
}

// ServerInfo is returned by GET /admin/info.
type ServerInfo struct {
	// example: llama-3-8b
	ModelName string `json:"model_name" example:"llama-3-8b"`
	// example: /app/models/model.gguf
	ModelPath string `json:"model_path" example:"/app/models/model.gguf"`
	// example: 4096
	NCtx int `json:"n_ctx" example:"4096"`
	// example: -1
	NGPULayers int `json:"n_gpu_layers" example:"-1"`
	// example: true
	ModelLoaded bool `json:"model_loaded" example:"true"`
}

// ReloadResponse is returned by POST /admin/reload.
type ReloadResponse struct {
	// example: success
	Status string `json:"status" example:"success"`
	// example: Model reloaded successfully
	Message string `json:"message" example:"Model reloaded successfully"`
}

// ErrorResponse is the JSON error payload.
type ErrorResponse struct {
	// Human-readable error detail.
	// example: Invalid API key
	Detail string `json:"detail" example:"Invalid API key"`
	// Machine-readable error kind.
	// example: authentication_error
	Type string `json:"type,omitempty" example:"authentication_error"`
}

// FieldError is one entry of a 422 validation response.
type FieldError struct {
	// example: max_tokens
	Field string `json:"field" example:"max_tokens"`
	// example: must be between 1 and 32000
	Message string `json:"message" example:"must be between 1 and 32000"`
}

// ValidationErrorResponse is the 422 payload with per-field details.
type ValidationErrorResponse struct {
	Detail []FieldError `json:"detail"`
	// example: validation_error
	Type string `json:"type" example:"validation_error"`
}
