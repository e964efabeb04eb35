package service

import (
	"errors"
)

var (
	ErrInvalidURL          = errors.New("invalid url")
	ErrInvalidAlias        = errors.New("invalid alias")
	ErrAliasTaken          = errors.New("alias is already taken")
	ErrNotFound            = errors.New("short code not found")
	ErrGenerationExhausted = errors.New("could not allocate a unique short code, try again")
	ErrStoreUnavailable    = errors.New("storage is temporarily unavailable, try again")
)

// Public error codes returned to API clients.
const (
	CodeInvalidURL          = "InvalidUrl"
	CodeInvalidAlias        = "InvalidAlias"
	CodeAliasTaken          = "AliasTaken"
	CodeNotFound            = "NotFound"
	CodeGenerationExhausted = "GenerationExhausted"
	CodeStoreUnavailable    = "StoreUnavailable"
	CodeInternal            = "Internal"
)

var taxonomy = []struct {
	err  error
	code string
}{
	{ErrInvalidURL, CodeInvalidURL},
	{ErrInvalidAlias, CodeInvalidAlias},
	{ErrAliasTaken, CodeAliasTaken},
	{ErrNotFound, CodeNotFound},
	{ErrGenerationExhausted, CodeGenerationExhausted},
	{ErrStoreUnavailable, CodeStoreUnavailable},
}

// ErrorCode maps err to its public code. Errors outside the taxonomy are
// reported as CodeInternal.
func ErrorCode(err error) string {
	for _, t := range taxonomy {
		if errors.Is(err, t.err) {
			return t.code
		}
	}

	return CodeInternal
}

// ErrorDetail returns a message safe to show to API clients. Validation
// errors keep their context, everything else is reduced to the sentinel
// text so that storage internals stay in the logs.
func ErrorDetail(err error) string {
	switch {
	case errors.Is(err, ErrInvalidURL), errors.Is(err, ErrInvalidAlias):
		return err.Error()
	}

	for _, t := range taxonomy {
		if errors.Is(err, t.err) {
			return t.err.Error()
		}
	}

	return "internal error"
}
