// Package response builds the envelope every endpoint answers with:
// {success, message, data} plus an optional count for list answers.
package response

import ptr "github.com/GintGld/media-engine/internal/lib/utils/pointers"

type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Count   *int   `json:"count,omitempty"`
}

func Success(message string, data any) Body {
	if data == nil {
		data = map[string]any{}
	}
	return Body{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func SuccessCount(message string, data any, count int) Body {
	b := Success(message, data)
	b.Count = ptr.Ptr(count)
	return b
}

func Failure(message string) Body {
	return Body{
		Success: false,
		Message: message,
		Data:    map[string]any{},
	}
}
