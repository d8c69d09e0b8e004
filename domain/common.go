package domain

import (
	"errors"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultPageSize = 6
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrParseID        = errors.New("failed to parse id")
	ErrUserNotAllowed = errors.New("user not allowed")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
)

type (
	// Viewer is the identity behind a request. ID is zero for anonymous callers.
	Viewer struct {
		ID   uint
		Role string
	}

	PaginationRequest struct {
		Page  int `query:"page"`
		Limit int `query:"limit"`
	}

	PaginationResponse struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}
)

func (v Viewer) IsAuthenticated() bool {
	return v.ID != 0
}

func (v Viewer) IsAdmin() bool {
	return v.Role == RoleAdmin
}

// Normalize fills in defaults for missing or out of range values.
func (p PaginationRequest) Normalize(defaultLimit int) PaginationRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	return p
}

func (p PaginationRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

func NewPaginationResponse(p PaginationRequest, total int64) PaginationResponse {
	return PaginationResponse{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: (total + int64(p.Limit) - 1) / int64(p.Limit),
	}
}
