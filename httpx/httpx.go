// Package httpx normalizes failures from net/http-based resolvers into the
// contract error taxonomy. Classification is total: every input maps to
// exactly one ParsedError kind, with the raw failure preserved for
// diagnostics.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/bjaus/contract"
)

// ResponseError is what an HTTP resolver should return when the server
// replied with a non-2xx status. It keeps the raw body so the normalizer
// can decide whether the reply conforms to the endpoint's error contract.
type ResponseError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *ResponseError) Error() string {
	if e.Status != "" {
		return "server responded " + e.Status
	}
	return fmt.Sprintf("server responded %d", e.StatusCode)
}

// Normalizer classifies raw failures for one HTTP transport.
//
// Offline, when set, is consulted for request-sent-but-no-response failures:
// reporting true classifies them as no_internet rather than
// no_server_response. Leave it nil when the process has no connectivity
// signal.
type Normalizer struct {
	Offline func() bool
}

// Normalize maps a raw failure from the named endpoint into the closed
// taxonomy:
//
//   - a ResponseError whose body is a conforming error variant
//     ({type, status, message, meta?}) passes through verbatim;
//   - a ResponseError with any other body → unsupported_server_response,
//     original status and body preserved in Meta;
//   - a structured validation failure → validation_error, issues in Meta;
//   - context cancellation → aborted;
//   - a URL that never parsed (no request was built) → configuration_issue;
//   - a request that got no response → no_internet when Offline reports
//     offline, otherwise no_server_response;
//   - everything else, nil included → client_exception.
func (n Normalizer) Normalize(endpoint string, raw error) *contract.ParsedError {
	_ = endpoint // present for per-endpoint transports; classification is endpoint-independent here

	if raw == nil {
		return contract.ClientException(nil)
	}

	var verr *contract.ValidationError
	if errors.As(raw, &verr) {
		return contract.FromValidation(raw, verr)
	}

	if errors.Is(raw, context.Canceled) {
		return contract.Aborted(raw)
	}

	var rerr *ResponseError
	if errors.As(raw, &rerr) {
		if d, ok := domainFromBody(rerr.Body); ok {
			return contract.FromDomain(raw, d)
		}
		return contract.UnsupportedServerResponse(raw, map[string]any{
			"status": rerr.StatusCode,
			"body":   string(rerr.Body),
		})
	}

	var uerr *url.Error
	if errors.As(raw, &uerr) {
		if uerr.Op == "parse" {
			return contract.ConfigurationIssue(raw)
		}
		return n.noResponse(raw)
	}

	var nerr net.Error
	if errors.As(raw, &nerr) {
		return n.noResponse(raw)
	}

	return contract.ClientException(raw)
}

// noResponse picks between the two request-sent-but-nothing-came-back kinds.
func (n Normalizer) noResponse(raw error) *contract.ParsedError {
	if n.Offline != nil && n.Offline() {
		return contract.NoInternet(raw)
	}
	return contract.NoServerResponse(raw)
}

// Normalize classifies with a zero Normalizer (no offline probe).
func Normalize(endpoint string, raw error) *contract.ParsedError {
	return Normalizer{}.Normalize(endpoint, raw)
}

// domainFromBody probes the response body for the declared error-variant
// shape: "type" string, "status" number, "message" string, optional "meta".
func domainFromBody(body []byte) (*contract.DomainError, bool) {
	if !gjson.ValidBytes(body) {
		return nil, false
	}

	typ := gjson.GetBytes(body, "type")
	status := gjson.GetBytes(body, "status")
	msg := gjson.GetBytes(body, "message")
	if typ.Type != gjson.String || status.Type != gjson.Number || msg.Type != gjson.String {
		return nil, false
	}

	d := &contract.DomainError{
		Type:    typ.String(),
		Status:  int(status.Int()),
		Message: msg.String(),
	}
	if meta := gjson.GetBytes(body, "meta"); meta.Exists() {
		d.Meta = meta.Value()
	}
	return d, true
}
