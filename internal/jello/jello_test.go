package jello

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jacoelho/jello/internal/normalize"
	"github.com/jacoelho/jello/internal/query"
)

func TestQuery(t *testing.T) {
	t.Parallel()

	document := map[string]any{
		"a": int64(1),
		"b": map[string]any{"c": int64(2)},
		"items": []any{
			map[string]any{"name": "x", "n": int64(1)},
			map[string]any{"name": "y", "n": int64(2)},
		},
	}

	tests := []struct {
		name string
		src  string
		want any
	}{
		{
			name: "identity_round_trip",
			src:  "_",
			want: document,
		},
		{
			name: "navigation",
			src:  "_.b.c",
			want: int64(2),
		},
		{
			name: "projection",
			src:  "[item.name for item in _.items]",
			want: []any{"x", "y"},
		},
		{
			name: "setup_then_expression",
			src:  "total = sum([item.n for item in _.items])\ntotal",
			want: int64(3),
		},
		{
			name: "object_result_is_plain",
			src:  "_.b",
			want: map[string]any{"c": int64(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Query(document, "", tt.src)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Query() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestQueryPreludeBindings(t *testing.T) {
	t.Parallel()

	// Helper variables from the prelude are visible inside the query;
	// option assignments execute too but are harmless bindings here.
	prelude := "compact = true\nfactor = 10\n"

	got, err := Query(map[string]any{"n": int64(4)}, prelude, "_.n * factor")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if got != int64(40) {
		t.Fatalf("Query() = %v, want 40", got)
	}
}

func TestQueryErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		src    string
		input  any
		target error
	}{
		{name: "syntax", src: "_.(", input: nil, target: query.ErrSyntax},
		{name: "no_final_expression", src: "x = 1", input: nil, target: query.ErrShape},
		{name: "runtime", src: "1 / 0", input: nil, target: query.ErrRuntime},
		{
			name:   "reserved_name_result",
			src:    "_.keys",
			input:  map[string]any{"keys": "secret"},
			target: normalize.ErrReservedName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Query(tt.input, "", tt.src)
			if !errors.Is(err, tt.target) {
				t.Fatalf("Query() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestQueryBracketBypassesReservedName(t *testing.T) {
	t.Parallel()

	got, err := Query(map[string]any{"keys": "secret"}, "", "_['keys']")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if got != "secret" {
		t.Fatalf("Query() = %v, want secret", got)
	}
}
