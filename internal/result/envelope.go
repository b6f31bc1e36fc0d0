package result

import (
	"errors"

	"github.com/2beens/fitcourses/internal/api"
)

const (
	MatchExactRU = "exact_ru"
	MatchExactEN = "exact_en"
	MatchPartial = "partial"
)

// Envelope is what every accessor returns. Failures are reported in it,
// accessors never hand raw errors to their callers.
type Envelope[T any] struct {
	Success     bool     `json:"success"`
	Data        T        `json:"data"`
	Error       string   `json:"error,omitempty"`
	IsDuplicate bool     `json:"isDuplicate,omitempty"`
	IsOffline   bool     `json:"isOffline,omitempty"`
	FromCache   bool     `json:"fromCache,omitempty"`
	Message     string   `json:"message,omitempty"`
	MatchType   string   `json:"matchType,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Field       string   `json:"field,omitempty"`
	// Status of the failed API call, 0 for network failures.
	Status int `json:"status,omitempty"`
}

func OK[T any](data T) *Envelope[T] {
	return &Envelope[T]{
		Success: true,
		Data:    data,
	}
}

// Fail converts err into a failed envelope. fallback is used when err does
// not carry a message of its own.
func Fail[T any](err error, fallback string) *Envelope[T] {
	env := &Envelope[T]{
		Error: fallback,
	}
	if err == nil {
		return env
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		env.Status = apiErr.Status
		if apiErr.Message != "" {
			env.Error = apiErr.Message
		}
		return env
	}

	if msg := err.Error(); msg != "" {
		env.Error = msg
	}
	return env
}

// Offline marks a failed envelope as caused by the server being unreachable.
func (e *Envelope[T]) Offline() *Envelope[T] {
	e.IsOffline = true
	return e
}

func (e *Envelope[T]) WithData(data T) *Envelope[T] {
	e.Data = data
	return e
}

func (e *Envelope[T]) WithMessage(msg string) *Envelope[T] {
	e.Message = msg
	return e
}
