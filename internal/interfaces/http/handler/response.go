package handler

import "github.com/logiport/backend/internal/interfaces/http/dto"

// APIResponse is the envelope of a successful call with its typed payload,
// e.g. APIResponse[printingapp.RenderResult] for a rendered document
// @Description Success envelope with typed data
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// ErrorResponse is the envelope of a failed call
// @Description Error envelope; error.code is one of the ERR_* codes
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}
