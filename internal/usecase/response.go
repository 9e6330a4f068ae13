package usecase

import (
	"errors"
	"fmt"
)

// Kind classifies a failed response so the transport can pick a status.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnavailable  Kind = "unavailable"
	KindUpstream     Kind = "upstream"
	KindUnauthorized Kind = "unauthorized"
)

type Response[T any] struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message"`
	Data      T      `json:"data"`
	Kind      Kind   `json:"-"`
}

type PagedResponse[T any] struct {
	IsSuccess  bool   `json:"isSuccess"`
	Message    string `json:"message"`
	Data       []T    `json:"data"`
	PageNumber int    `json:"pageNumber"`
	TotalPages int    `json:"totalPages"`
	TotalCount int64  `json:"totalCount"`
	Kind       Kind   `json:"-"`
}

// Failure is a precondition failure. Returning one from inside a
// transaction rolls it back; the handler then reports it in the envelope.
type Failure struct {
	Kind    Kind
	Message string
}

func (f *Failure) Error() string { return f.Message }

func fail(kind Kind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// respond turns the outcome of a handler body into an envelope. Anything
// that is not a Failure is unexpected and goes back to the caller as an error.
func respond[T any](data T, msg string, err error) (Response[T], error) {
	if err == nil {
		return Response[T]{IsSuccess: true, Message: msg, Data: data}, nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return Response[T]{Message: f.Message, Kind: f.Kind}, nil
	}
	return Response[T]{}, err
}
