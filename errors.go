package contract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEndpoint is returned (wrapped, with the endpoint name) when a
// name absent from the contract table is used on an untyped path such as
// Validate or the Check helpers. Looking up a name that was never registered
// is a programmer error; it is surfaced loudly rather than treated as a
// validator-less pass-through.
var ErrUnknownEndpoint = errors.New("unknown endpoint")

// ErrNoResolver is returned (wrapped) by Call when the endpoint exists but
// was registered without a resolver. It flows through the post-failure
// channel like any other call failure.
var ErrNoResolver = errors.New("endpoint has no resolver")

// Issue is one field-level validation finding.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError is the structured failure raised by schema validators.
// Adapters for concrete validation libraries convert their native error
// shapes into this one so the rest of the pipeline (and the error
// normalizers) can identify validation failures with errors.As.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		if is.Path == "" {
			parts[i] = is.Message
			continue
		}
		parts[i] = is.Path + ": " + is.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// DomainError is the declared error-variant shape every endpoint's error
// contract follows: a string discriminator, a status, a human message, and
// an optional variant-specific meta payload.
type DomainError struct {
	Type    string `json:"type"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Meta    any    `json:"meta,omitempty"`
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Type, e.Status, e.Message)
}

// Transport-failure kinds. The statuses are taxonomy tags, not HTTP codes;
// they never collide with server-declared statuses, which are positive.
const (
	TypeAborted                   = "aborted"
	TypeClientException           = "client_exception"
	TypeNoInternet                = "no_internet"
	TypeNoServerResponse          = "no_server_response"
	TypeConfigurationIssue        = "configuration_issue"
	TypeUnsupportedServerResponse = "unsupported_server_response"
	TypeValidationError           = "validation_error"
)

const (
	StatusAborted                   = 0
	StatusClientException           = -1
	StatusNoInternet                = -2
	StatusNoServerResponse          = -3
	StatusConfigurationIssue        = -4
	StatusUnsupportedServerResponse = -5
	StatusValidationError           = -6
)

// ParsedError is the normalized form every transport normalizer produces:
// either an endpoint-declared domain error passed through verbatim, or one
// of the fixed transport-failure kinds. Raw always holds the failure the
// normalizer was given, for diagnostics.
type ParsedError struct {
	Type    string `json:"type"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Meta    any    `json:"meta,omitempty"`
	Raw     error  `json:"-"`
}

func (e *ParsedError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Type, e.Status, e.Message)
}

// Unwrap exposes the raw failure to errors.Is / errors.As chains.
func (e *ParsedError) Unwrap() error { return e.Raw }

// Aborted builds the "call was cancelled" classification.
func Aborted(raw error) *ParsedError {
	return &ParsedError{Type: TypeAborted, Status: StatusAborted, Message: "request aborted", Raw: raw}
}

// ClientException is the fallback classification for failures that match no
// other kind. The normalizers use it as their total-function backstop.
func ClientException(raw error) *ParsedError {
	msg := "client exception"
	if raw != nil {
		msg = raw.Error()
	}
	return &ParsedError{Type: TypeClientException, Status: StatusClientException, Message: msg, Raw: raw}
}

// NoInternet classifies a request that never reached the server while the
// runtime reports itself offline.
func NoInternet(raw error) *ParsedError {
	return &ParsedError{Type: TypeNoInternet, Status: StatusNoInternet, Message: "no internet connection", Raw: raw}
}

// NoServerResponse classifies a request that was sent but got no reply.
func NoServerResponse(raw error) *ParsedError {
	return &ParsedError{Type: TypeNoServerResponse, Status: StatusNoServerResponse, Message: "no response from server", Raw: raw}
}

// ConfigurationIssue classifies a failure that happened before the request
// was even sent.
func ConfigurationIssue(raw error) *ParsedError {
	return &ParsedError{Type: TypeConfigurationIssue, Status: StatusConfigurationIssue, Message: "request configuration issue", Raw: raw}
}

// UnsupportedServerResponse classifies a server reply whose body does not
// conform to the declared error contract. Meta carries the original status
// and body so nothing is lost.
func UnsupportedServerResponse(raw error, meta any) *ParsedError {
	return &ParsedError{
		Type:    TypeUnsupportedServerResponse,
		Status:  StatusUnsupportedServerResponse,
		Message: "unsupported server response",
		Meta:    meta,
		Raw:     raw,
	}
}

// FromValidation converts a structured validation failure into its
// normalized form, preserving the per-field issues in Meta.
func FromValidation(raw error, verr *ValidationError) *ParsedError {
	return &ParsedError{
		Type:    TypeValidationError,
		Status:  StatusValidationError,
		Message: verr.Error(),
		Meta:    verr.Issues,
		Raw:     raw,
	}
}

// FromDomain passes a conforming server-declared error variant through
// verbatim, attaching the raw failure for diagnostics.
func FromDomain(raw error, d *DomainError) *ParsedError {
	return &ParsedError{Type: d.Type, Status: d.Status, Message: d.Message, Meta: d.Meta, Raw: raw}
}

// PanicError carries a value recovered from a panicking resolver (or, in
// SafeCall, from anywhere in the call sequence). The recovered value is kept
// as-is; it is not required to be an error.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Unwrap exposes a recovered error value to errors.Is / errors.As chains.
// Recovered non-error values unwrap to nil.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
