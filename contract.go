package contract

import (
	"context"
	"fmt"
)

// Slot identifies one of the input or output positions an endpoint can
// declare a validator for.
type Slot string

// Input slots are validated before the resolver runs, in the order listed
// here. Output slots are validated after.
const (
	SlotPathParams   Slot = "pathParams"
	SlotSearchParams Slot = "searchParams"
	SlotPayload      Slot = "payload"
	SlotExtra        Slot = "extra"
	SlotDTO          Slot = "dto"
	SlotError        Slot = "error"
)

// inputSlots is the fixed validation order for caller-supplied slots.
var inputSlots = [...]Slot{SlotPathParams, SlotSearchParams, SlotPayload, SlotExtra}

// Input carries the caller-supplied slot values for one call. A nil field
// means the slot was not passed; only non-nil slots are copied into the
// envelope and validated.
type Input struct {
	PathParams   any
	SearchParams any
	Payload      any
	Extra        any
}

// Envelope is the assembled value handed to the resolver and to lifecycle
// subscribers. It contains exactly the slots the caller passed, plus the
// dispatcher's configuration reference when one was provided. The same
// envelope instance flows through the pre-call, post-success, and
// post-failure channels, so subscribers observe what the resolver saw.
type Envelope struct {
	PathParams   any
	SearchParams any
	Payload      any
	Extra        any

	// Config is the dispatcher-wide configuration value, shared by
	// reference across all calls. Callers that mutate it see the mutation
	// on subsequent calls; the dispatcher never copies it.
	Config any
}

// slot returns the envelope's value for an input slot.
func (e *Envelope) slot(s Slot) any {
	switch s {
	case SlotPathParams:
		return e.PathParams
	case SlotSearchParams:
		return e.SearchParams
	case SlotPayload:
		return e.Payload
	case SlotExtra:
		return e.Extra
	}
	return nil
}

// Resolver performs the actual work of one endpoint: typically an HTTP or
// gRPC round trip, but the dispatcher only requires a function. The resolver
// receives the assembled envelope and the caller's context; cancellation is
// the resolver's responsibility and surfaces as an ordinary returned error.
type Resolver func(ctx context.Context, env *Envelope) (any, error)

// Endpoint is one entry in the contract table: the resolver that performs
// the operation and the optional per-slot validators.
type Endpoint struct {
	Resolve Resolver
	Schemas *Schemas
}

// ResolverOf erases a typed resolver into the Resolver shape stored in the
// contract table. Use it to keep resolver implementations typed:
//
//	"user/get": contract.Endpoint{
//	    Resolve: contract.ResolverOf(func(ctx context.Context, env *contract.Envelope) (User, error) {
//	        ...
//	    }),
//	}
func ResolverOf[T any](fn func(ctx context.Context, env *Envelope) (T, error)) Resolver {
	return func(ctx context.Context, env *Envelope) (any, error) {
		out, err := fn(ctx, env)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

// CallAs invokes d.Call and asserts the result to T.
//
// This is a package-level function (not a method) due to Go generics
// limitations: methods cannot have type parameters independent of the
// receiver.
func CallAs[T any](ctx context.Context, d *Dispatcher, name string, in *Input) (T, error) {
	var zero T
	out, err := d.Call(ctx, name, in)
	if err != nil {
		return zero, err
	}
	typed, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("endpoint %s: result is %T, want %T", name, out, zero)
	}
	return typed, nil
}
