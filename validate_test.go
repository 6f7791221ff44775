package contract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_Validate(t *testing.T) {
	rawRules := "len(id) > 0"
	d := New(map[string]Endpoint{
		"user/get": {
			Resolve: func(ctx context.Context, env *Envelope) (any, error) { return nil, nil },
			Schemas: &Schemas{
				PathParams: NewSchemaWithRaw(rawRules, func(v any) (any, error) {
					s, ok := v.(string)
					if !ok || s == "" {
						return nil, &ValidationError{Issues: []Issue{{Path: "id", Message: "must not be empty"}}}
					}
					// Transform on purpose: the pipeline must discard this.
					return strings.ToUpper(s), nil
				}),
				Payload: NewSchema(func(v any) (any, error) { return v, nil }),
			},
		},
		"bare": {
			Resolve: func(ctx context.Context, env *Envelope) (any, error) { return nil, nil },
		},
	})

	t.Run("missing validator is a pass-through", func(t *testing.T) {
		out, err := d.Validate("user/get", SlotSearchParams, "anything")
		require.NoError(t, err)
		assert.Equal(t, "anything", out)
	})

	t.Run("endpoint without schemas is a pass-through", func(t *testing.T) {
		out, err := d.Validate("bare", SlotPayload, 42)
		require.NoError(t, err)
		assert.Equal(t, 42, out)
	})

	t.Run("returns the original value, not the transform", func(t *testing.T) {
		out, err := d.Validate("user/get", SlotPathParams, "abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", out, "validator transforms are discarded on the dispatch path")
	})

	t.Run("validator failure propagates unchanged", func(t *testing.T) {
		_, err := d.Validate("user/get", SlotPathParams, "")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []Issue{{Path: "id", Message: "must not be empty"}}, verr.Issues)
	})

	t.Run("unknown endpoint is a programmer error", func(t *testing.T) {
		_, err := d.Validate("ghost", SlotPayload, "x")
		assert.ErrorIs(t, err, ErrUnknownEndpoint)
	})

	t.Run("check helpers route to their slots", func(t *testing.T) {
		_, err := d.CheckPathParams("user/get", "")
		assert.Error(t, err)

		out, err := d.CheckPathParams("user/get", "abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", out)

		for _, check := range []func(string, any) (any, error){
			d.CheckSearchParams, d.CheckPayload, d.CheckExtra, d.CheckDTO, d.CheckError,
		} {
			out, err := check("user/get", "passthrough")
			require.NoError(t, err)
			assert.Equal(t, "passthrough", out)
		}
	})

	t.Run("schemas introspection", func(t *testing.T) {
		sc, ok := d.Schemas("user/get")
		require.True(t, ok)
		assert.NotNil(t, sc.PathParams)
		assert.Nil(t, sc.SearchParams)

		_, ok = d.Schemas("bare")
		assert.False(t, ok, "endpoint without declared validators has no schema set")

		_, ok = d.Schemas("ghost")
		assert.False(t, ok)
	})

	t.Run("raw schemas cover only validators that carry one", func(t *testing.T) {
		raw := d.RawSchemas("user/get")
		require.Len(t, raw, 1)
		assert.Equal(t, rawRules, raw[SlotPathParams])

		assert.Nil(t, d.RawSchemas("bare"))
		assert.Nil(t, d.RawSchemas("ghost"))
	})
}

type validatedParams struct {
	ID string
}

func (p validatedParams) Validate() error {
	if p.ID == "" {
		return errors.New("id must not be empty")
	}
	return nil
}

func TestSchemaFor(t *testing.T) {
	t.Run("accepts valid values", func(t *testing.T) {
		s := SchemaFor[validatedParams]()
		out, err := s.Check(validatedParams{ID: "1"})
		require.NoError(t, err)
		assert.Equal(t, validatedParams{ID: "1"}, out)
	})

	t.Run("folds Validate errors into ValidationError", func(t *testing.T) {
		s := SchemaFor[validatedParams]()
		_, err := s.Check(validatedParams{})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Error(), "id must not be empty")
	})

	t.Run("rejects mistyped values", func(t *testing.T) {
		s := SchemaFor[validatedParams]()
		_, err := s.Check("not params")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("types without Validate pass on assert alone", func(t *testing.T) {
		s := SchemaFor[int]()
		out, err := s.Check(3)
		require.NoError(t, err)
		assert.Equal(t, 3, out)
	})

	t.Run("carries no raw schema", func(t *testing.T) {
		_, ok := SchemaFor[int]().Raw()
		assert.False(t, ok)
	})
}
