package httpapi

import (
	"strings"

	"inferd/pkg/types"
)

// Validation ranges for chat completion requests.
const (
	minTemperature = 0.0
	maxTemperature = 2.0
	minMaxTokens   = 1
	maxMaxTokens   = 32000
	minTopP        = 0.0
	maxTopP        = 1.0
)

// validateChatRequest checks ranges and required fields, returning one entry
// per violation.
func validateChatRequest(req types.ChatCompletionRequest) []types.FieldError {
	var errs []types.FieldError
	if len(req.Messages) == 0 {
		errs = append(errs, types.FieldError{Field: "messages", Message: "must contain at least one message"})
	}
	for _, m := range req.Messages {
		switch m.Role {
		case "system", "user", "assistant":
		default:
			errs = append(errs, types.FieldError{Field: "messages", Message: "role must be one of system, user, assistant"})
		}
		if strings.TrimSpace(m.Content) == "" {
			errs = append(errs, types.FieldError{Field: "messages", Message: "content must not be empty"})
		}
	}
	if req.Temperature < minTemperature || req.Temperature > maxTemperature {
		errs = append(errs, types.FieldError{Field: "temperature", Message: "must be between 0 and 2"})
	}
	if req.MaxTokens < minMaxTokens || req.MaxTokens > maxMaxTokens {
		errs = append(errs, types.FieldError{Field: "max_tokens", Message: "must be between 1 and 32000"})
	}
	if req.TopP < minTopP || req.TopP > maxTopP {
		errs = append(errs, types.FieldError{Field: "top_p", Message: "must be between 0 and 1"})
	}
	return errs
}
