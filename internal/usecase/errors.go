package usecase

import (
	"errors"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeInvalidStatus = "INVALID_STATUS"
	CodeLeadNotFound  = "LEAD_NOT_FOUND"
	CodeForbidden     = "FORBIDDEN"

	CodeDatabase    = "DATABASE_ERROR"
	CodeTranslation = "TRANSLATION_ERROR"
)

// DomainError is a rejection the caller can act on (bad input, missing lead).
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// DomainCode returns the code of a wrapped DomainError, or "".
func DomainCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// TechnicalError is an infrastructure failure. Callers may retry.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func notFound(leadID string) *DomainError {
	return &DomainError{Code: CodeLeadNotFound, Message: "lead " + leadID + " not found"}
}

func databaseError(op string, err error) *TechnicalError {
	return &TechnicalError{Code: CodeDatabase, Message: op + ": " + err.Error(), Err: err}
}

var errEmptyTranslation = errors.New("translator returned empty text")

func translationError(target entity.Language, err error) *TechnicalError {
	if err == nil {
		err = errEmptyTranslation
	}
	return &TechnicalError{Code: CodeTranslation, Message: "translation to " + string(target) + " failed: " + err.Error(), Err: err}
}

func mapLeadLookup(leadID string, err error) error {
	if errors.Is(err, entity.ErrLeadNotFound) {
		return notFound(leadID)
	}
	return databaseError("failed to load lead", err)
}
