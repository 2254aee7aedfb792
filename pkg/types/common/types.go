package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrorDetail is the {code, message} envelope of every failed API request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error lets clients surface an envelope as an error value.
func (e *ErrorDetail) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// PaginationResult holds the pagination metadata for a response.
// Page is 0-based.
type PaginationResult struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationResult fills TotalPages from total and size.
func NewPaginationResult(page, size, total int) PaginationResult {
	pages := 0
	if size > 0 && total > 0 {
		pages = (total + size - 1) / size
	}
	return PaginationResult{Page: page, PageSize: size, Total: total, TotalPages: pages}
}

// HealthStatus indicates the health of a component or service.
type HealthStatus string

const (
	HealthUp   HealthStatus = "up"
	HealthDown HealthStatus = "down"
)

// ComponentHealth provides health information for a specific component.
type ComponentHealth struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Latency string       `json:"latency,omitempty"`
	Message string       `json:"message,omitempty"`
}

// BaseEvent carries the identity fields shared by published events.
type BaseEvent struct {
	ID        string    `json:"event_id"`
	Timestamp time.Time `json:"occurred_at"`
	AggID     string    `json:"aggregate_id"`
}

// NewBaseEvent stamps a fresh event id and the current UTC time.
func NewBaseEvent(aggID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		AggID:     aggID,
	}
}

func (e BaseEvent) EventID() string {
	return e.ID
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func (e BaseEvent) AggregateID() string {
	return e.AggID
}

//Personal.AI order the ending
