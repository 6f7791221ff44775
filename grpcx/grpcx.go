// Package grpcx normalizes failures from gRPC-based resolvers into the
// contract error taxonomy. It is the gRPC counterpart of httpx: one
// normalizer per transport library, same closed set of kinds.
package grpcx

import (
	"context"
	"errors"

	gcodes "google.golang.org/grpc/codes"
	gstatus "google.golang.org/grpc/status"

	"github.com/tidwall/gjson"

	"github.com/bjaus/contract"
)

// Normalize maps a raw failure from the named endpoint into the closed
// taxonomy:
//
//   - context cancellation or a Canceled status → aborted;
//   - DeadlineExceeded or Unavailable → no_server_response (the server never
//     answered; gRPC offers no client-side offline signal, so no_internet is
//     never produced here);
//   - any other non-OK status whose message is a conforming error variant
//     ({type, status, message, meta?} JSON) passes through verbatim;
//   - any other non-OK status → unsupported_server_response with the gRPC
//     code and message preserved in Meta;
//   - a structured validation failure → validation_error, issues in Meta;
//   - everything else, nil included → client_exception.
func Normalize(endpoint string, raw error) *contract.ParsedError {
	_ = endpoint

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

	st, ok := gstatus.FromError(raw)
	if !ok || st.Code() == gcodes.OK {
		return contract.ClientException(raw)
	}

	switch st.Code() {
	case gcodes.Canceled:
		return contract.Aborted(raw)
	case gcodes.DeadlineExceeded, gcodes.Unavailable:
		return contract.NoServerResponse(raw)
	}

	if d, ok := domainFromMessage(st.Message()); ok {
		return contract.FromDomain(raw, d)
	}

	return contract.UnsupportedServerResponse(raw, map[string]any{
		"code":    st.Code().String(),
		"message": st.Message(),
	})
}

// domainFromMessage probes a status message for the declared error-variant
// shape. Servers that speak the contract embed the variant as JSON in the
// status message.
func domainFromMessage(msg string) (*contract.DomainError, bool) {
	if !gjson.Valid(msg) {
		return nil, false
	}

	typ := gjson.Get(msg, "type")
	status := gjson.Get(msg, "status")
	text := gjson.Get(msg, "message")
	if typ.Type != gjson.String || status.Type != gjson.Number || text.Type != gjson.String {
		return nil, false
	}

	d := &contract.DomainError{
		Type:    typ.String(),
		Status:  int(status.Int()),
		Message: text.String(),
	}
	if meta := gjson.Get(msg, "meta"); meta.Exists() {
		d.Meta = meta.Value()
	}
	return d, true
}
