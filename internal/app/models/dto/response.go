package dto

import "time"

// APIResponse is the envelope for every successful response
type APIResponse struct {
	Success    bool            `json:"success" example:"true"`
	Message    string          `json:"message,omitempty" example:"Operation completed successfully"`
	Data       interface{}     `json:"data,omitempty"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
	Error      *ErrorDetail    `json:"error,omitempty"`
	Timestamp  time.Time       `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in a success envelope
func NewSuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewPaginatedResponse wraps a page of items in a success envelope
func NewPaginatedResponse(data interface{}, pagination PaginationInfo, message string) APIResponse {
	resp := NewSuccessResponse(data, message)
	resp.Pagination = &pagination
	return resp
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// PaginationInfo describes one page of a listing
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage" example:"1"`
	TotalPages  int   `json:"totalPages" example:"3"`
	PageSize    int   `json:"pageSize" example:"10"`
	TotalItems  int64 `json:"totalItems" example:"27"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status        string            `json:"status" example:"ok"`
	Database      string            `json:"database" example:"ok"`
	Notifications NotificationStats `json:"notifications"`
}

// NotificationStats mirrors the dispatcher counters
type NotificationStats struct {
	Queued  int64 `json:"queued"`
	Sent    int64 `json:"sent"`
	Failed  int64 `json:"failed"`
	Dropped int64 `json:"dropped"`
	Retried int64 `json:"retried"`
}
