package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

const (
	minNameLength    = 2
	maxNameLength    = 200
	minMessageLength = 10
	maxMessageLength = 5000
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{7,20}$`)
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateCreateLeadInput runs the submission form rules. It is shared by the
// server and the client so a rejected form never reaches the network.
func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	var errors []ValidationError

	name := strings.TrimSpace(input.Name)
	if name == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if utf8.RuneCountInString(name) < minNameLength {
		errors = append(errors, ValidationError{"name", "must have at least 2 characters"})
	} else if utf8.RuneCountInString(name) > maxNameLength {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if !emailPattern.MatchString(input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(input.Phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required"})
	} else if !phonePattern.MatchString(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		errors = append(errors, ValidationError{"message", "is required"})
	} else if utf8.RuneCountInString(message) < minMessageLength {
		errors = append(errors, ValidationError{"message", "must have at least 10 characters"})
	} else if utf8.RuneCountInString(message) > maxMessageLength {
		errors = append(errors, ValidationError{"message", "must not exceed 5000 characters"})
	}

	if !entity.Language(input.Language).Valid() {
		errors = append(errors, ValidationError{"language", "must be one of en, hi, es, fr, de, ar, pt, zh"})
	}

	return errors
}

// ValidateSendReplyInput checks the reply before the lead is looked up.
func ValidateSendReplyInput(input SendReplyInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Message) == "" {
		errors = append(errors, ValidationError{"message", "is required"})
	} else if utf8.RuneCountInString(input.Message) > maxMessageLength {
		errors = append(errors, ValidationError{"message", "must not exceed 5000 characters"})
	}
	if strings.TrimSpace(input.AgentEmail) == "" {
		errors = append(errors, ValidationError{"agent_email", "is required"})
	}

	return errors
}

func validationFailed(errs []ValidationError) *DomainError {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
		Fields:  errs,
	}
}
