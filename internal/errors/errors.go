package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AppError is the application error envelope: an internal message for logs
// and a user-facing message for the chat.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// NewTelegramError wraps a Telegram API failure.
func NewTelegramError(op string, cause error) *AppError {
	return &AppError{
		Code:        "E300",
		Message:     fmt.Sprintf("telegram api error: %s", op),
		UserMessage: "Что-то пошло не так 😔 Попробуйте ещё раз с команды /start.",
		Severity:    SeverityMedium,
		cause:       cause,
	}
}

// NewInternalError wraps an unexpected handler failure.
func NewInternalError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E500",
		Message:     fmt.Sprintf("internal error: %s", underlyingMsg),
		UserMessage: "Что-то пошло не так 😔 Попробуйте ещё раз с команды /start.",
		Severity:    SeverityCritical,
		cause:       cause,
	}
}
