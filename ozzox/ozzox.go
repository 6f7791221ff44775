// Package ozzox adapts github.com/go-ozzo/ozzo-validation rule sets into
// contract schemas. ozzo's validation.Errors maps are flattened into the
// contract's structured issue list, so downstream consumers (the error
// normalizers, form layers) see one failure shape regardless of library.
package ozzox

import (
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/bjaus/contract"
)

// Value builds a schema that checks a value of type T against a rule set.
// The rules slice is attached as the raw schema, so it stays reachable
// through Dispatcher.RawSchemas for reuse outside the dispatch pipeline.
//
//	idSchema := ozzox.Value[string](validation.Required, validation.Length(1, 64))
func Value[T any](rules ...validation.Rule) *contract.Schema {
	return contract.NewSchemaWithRaw(rules, func(v any) (any, error) {
		typed, ok := v.(T)
		if !ok {
			return nil, typeIssue[T](v)
		}
		if err := validation.Validate(typed, rules...); err != nil {
			return nil, convert(err)
		}
		return typed, nil
	})
}

// Struct builds a schema for struct type T. The fields callback receives a
// pointer to the value under validation and returns the per-field rules, the
// way validation.ValidateStruct expects them:
//
//	userSchema := ozzox.Struct(func(u *User) []*validation.FieldRules {
//	    return []*validation.FieldRules{
//	        validation.Field(&u.ID, validation.Required),
//	        validation.Field(&u.Email, validation.Required, is.Email),
//	    }
//	})
//
// Field rules bind to a concrete instance, so there is no standalone schema
// object to expose: Struct schemas carry no raw schema.
func Struct[T any](fields func(v *T) []*validation.FieldRules) *contract.Schema {
	return contract.NewSchema(func(v any) (any, error) {
		var typed T
		switch tv := v.(type) {
		case T:
			typed = tv
		case *T:
			if tv == nil {
				return nil, typeIssue[T](v)
			}
			typed = *tv
		default:
			return nil, typeIssue[T](v)
		}

		if err := validation.ValidateStruct(&typed, fields(&typed)...); err != nil {
			return nil, convert(err)
		}
		return typed, nil
	})
}

func typeIssue[T any](got any) error {
	var want T
	return &contract.ValidationError{Issues: []contract.Issue{{
		Message: fmt.Sprintf("expected %T, got %T", want, got),
	}}}
}

// convert flattens an ozzo error into the contract's structured failure.
// Nested validation.Errors become dotted paths; plain errors become a single
// unpathed issue.
func convert(err error) *contract.ValidationError {
	issues := flatten("", err)
	if len(issues) == 0 {
		issues = []contract.Issue{{Message: err.Error()}}
	}
	return &contract.ValidationError{Issues: issues}
}

func flatten(prefix string, err error) []contract.Issue {
	verrs, ok := err.(validation.Errors)
	if !ok {
		if prefix == "" {
			return nil
		}
		return []contract.Issue{{Path: prefix, Message: err.Error()}}
	}

	keys := make([]string, 0, len(verrs))
	for k := range verrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var issues []contract.Issue
	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		issues = append(issues, flatten(path, verrs[k])...)
	}
	return issues
}
