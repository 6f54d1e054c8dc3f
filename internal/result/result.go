// Package result carries the uniform success/failure envelope returned by the
// service layer. Exactly one of the payload and the error message is
// meaningful, enforced by the unexported fields and the constructors.
package result

import "net/http"

type Result[T any] struct {
	ok      bool
	data    T
	message string
	code    int
}

func OK[T any](data T) Result[T] {
	return Result[T]{ok: true, data: data, code: http.StatusOK}
}

func Created[T any](data T) Result[T] {
	return Result[T]{ok: true, data: data, code: http.StatusCreated}
}

func NoContent[T any]() Result[T] {
	return Result[T]{ok: true, code: http.StatusNoContent}
}

func Fail[T any](message string, code int) Result[T] {
	return Result[T]{message: message, code: code}
}

func Unauthorized[T any](message string) Result[T] {
	return Fail[T](message, http.StatusUnauthorized)
}

func NotFound[T any](message string) Result[T] {
	return Fail[T](message, http.StatusNotFound)
}

func Conflict[T any](message string) Result[T] {
	return Fail[T](message, http.StatusConflict)
}

func Internal[T any](message string) Result[T] {
	return Fail[T](message, http.StatusInternalServerError)
}

func (r Result[T]) IsSuccess() bool { return r.ok }

// Data is only meaningful when IsSuccess reports true.
func (r Result[T]) Data() T { return r.data }

// ErrorMessage is only meaningful when IsSuccess reports false.
func (r Result[T]) ErrorMessage() string { return r.message }

func (r Result[T]) Code() int { return r.code }
