package domain

import "fmt"

// FlowState is the state the callback dispatcher selected for a request
type FlowState string

const (
	FlowStateFresh            FlowState = "fresh"
	FlowStateProviderError    FlowState = "provider_error"
	FlowStateCallbackWithCode FlowState = "callback_with_code"
)

// ErrorKind tags the failures the flow can report
type ErrorKind string

const (
	ErrorKindProviderError     ErrorKind = "provider_error"
	ErrorKindForgedRequest     ErrorKind = "forged_request"
	ErrorKindExchangeFailure   ErrorKind = "exchange_failure"
	ErrorKindUnexpectedFailure ErrorKind = "unexpected_failure"
	ErrorKindInvalidRequest    ErrorKind = "invalid_request"
)

// NoDescription is shown when the provider omits error_description
const NoDescription = "(none)"

// ErrorInfo is the view model of the single error page
type ErrorInfo struct {
	Kind        ErrorKind `json:"kind"`
	Message     string    `json:"message"`
	Description string    `json:"description"`
}

// FlowError carries an ErrorInfo through error returns
type FlowError struct {
	Info  ErrorInfo
	Cause error
}

func (e *FlowError) Error() string {
	if e.Info.Description != "" {
		return fmt.Sprintf("%s: %s", e.Info.Message, e.Info.Description)
	}
	return e.Info.Message
}

func (e *FlowError) Unwrap() error {
	return e.Cause
}

// NewFlowError builds a FlowError of the given kind
func NewFlowError(kind ErrorKind, message, description string, cause error) *FlowError {
	return &FlowError{
		Info: ErrorInfo{
			Kind:        kind,
			Message:     message,
			Description: description,
		},
		Cause: cause,
	}
}
