// Package contract is a typed request/response contract runtime: a
// declarative table of named endpoints compiles into a single dispatcher
// that validates inputs and outputs, invokes a caller-supplied resolver, and
// notifies lifecycle subscribers — without performing any network I/O
// itself.
//
// # Quick Start
//
// Describe each endpoint with a resolver and optional per-slot validators:
//
//	d := contract.New(map[string]contract.Endpoint{
//	    "user/get": {
//	        Resolve: func(ctx context.Context, env *contract.Envelope) (any, error) {
//	            p := env.PathParams.(GetUserParams)
//	            return client.GetUser(ctx, p.ID)
//	        },
//	        Schemas: &contract.Schemas{
//	            PathParams: contract.SchemaFor[GetUserParams](),
//	        },
//	    },
//	}, contract.WithConfig(&cfg))
//
// Then dispatch:
//
//	user, err := d.Call(ctx, "user/get", &contract.Input{
//	    PathParams: GetUserParams{ID: "123"},
//	})
//
// # Call Sequence
//
// One Call flows through a fixed sequence: envelope assembly, fail-fast slot
// validation (pathParams, then searchParams, then payload, then extra),
// pre-call notification, resolver invocation, result validation, then
// post-success or post-failure notification. The first validator rejection
// stops the sequence before the resolver runs; a failure anywhere exits
// through the post-failure channel with the original error intact.
//
// SafeCall is the non-throwing variant: it folds every outcome, panics
// included, into a Result value.
//
// # Lifecycle Channels
//
// Each endpoint has three independent channels — OnCall, OnOk, OnFail — with
// per-subscription unsubscribe closures:
//
//	off := d.OnFail("user/get", func(e contract.FailEvent) {
//	    log.Warn().Err(e.Err).Msg("user/get failed")
//	})
//	defer off()
//
// Subscribers are isolated: one panicking callback is logged and skipped,
// siblings still run, and the call's own outcome is never affected.
//
// # Validators
//
// A validator is any func(any) (any, error) wrapped in a Schema; the package
// does not impose a validation library. Adapters exist for ozzo-validation
// (ozzox) and for types implementing Validate() error (SchemaFor). On the
// dispatch path validators are pure checks — a transformed return value is
// discarded and the original input travels on.
//
// # Error Normalization
//
// Transport adapters map raw resolver failures into a closed taxonomy of
// ParsedError values: the endpoint's own declared error variants pass
// through verbatim, everything else becomes one of seven transport-failure
// kinds. See the httpx and grpcx subpackages.
package contract
