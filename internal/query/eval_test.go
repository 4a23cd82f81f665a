package query

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jacoelho/jello/internal/dotmap"
)

// runScript parses, splits and executes a script against input, returning
// the unwrapped result.
func runScript(src string, input any) (any, error) {
	program, err := Parse(src)
	if err != nil {
		return nil, err
	}

	setup, final, err := program.Split()
	if err != nil {
		return nil, err
	}

	interp := NewInterpreter(dotmap.Wrap(input), input)
	if err := interp.Run(setup); err != nil {
		return nil, err
	}

	raw, err := interp.Eval(final)
	if err != nil {
		return nil, err
	}

	return dotmap.Unwrap(raw), nil
}

func TestEval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		input   any
		want    any
		wantErr bool
	}{
		{
			name:  "identity_scalar",
			src:   "_",
			input: int64(42),
			want:  int64(42),
		},
		{
			name:  "identity_string",
			src:   "_",
			input: "hello",
			want:  "hello",
		},
		{
			name:  "nested_navigation",
			src:   "_.b.c",
			input: map[string]any{"a": int64(1), "b": map[string]any{"c": int64(2)}},
			want:  int64(2),
		},
		{
			name:  "comprehension_preserves_order",
			src:   "[i.x for i in _]",
			input: []any{map[string]any{"x": int64(1)}, map[string]any{"x": int64(2)}},
			want:  []any{int64(1), int64(2)},
		},
		{
			name:  "comprehension_with_condition",
			src:   "[i for i in _ if i > 1]",
			input: []any{int64(1), int64(2), int64(3)},
			want:  []any{int64(2), int64(3)},
		},
		{
			name: "arithmetic_precedence",
			src:  "1 + 2 * 3",
			want: int64(7),
		},
		{
			name: "division_is_float",
			src:  "7 / 2",
			want: 3.5,
		},
		{
			name: "modulo",
			src:  "7 % 3",
			want: int64(1),
		},
		{
			name: "unary_minus",
			src:  "-(1 + 2)",
			want: int64(-3),
		},
		{
			name: "string_concat",
			src:  "'foo' + 'bar'",
			want: "foobar",
		},
		{
			name: "list_concat",
			src:  "[1] + [2, 3]",
			want: []any{int64(1), int64(2), int64(3)},
		},
		{
			name: "comparison_chain_mixed_numbers",
			src:  "2 < 2.5",
			want: true,
		},
		{
			name: "string_ordering",
			src:  "'apple' < 'banana'",
			want: true,
		},
		{
			name:  "in_object_key",
			src:   "'a' in _",
			input: map[string]any{"a": int64(1)},
			want:  true,
		},
		{
			name: "in_list_membership",
			src:  "2 in [1, 2, 3]",
			want: true,
		},
		{
			name: "in_substring",
			src:  "'ell' in 'hello'",
			want: true,
		},
		{
			name: "boolean_operators",
			src:  "true and not false or false",
			want: true,
		},
		{
			name: "symbolic_boolean_operators",
			src:  "true && !false || false",
			want: true,
		},
		{
			name: "null_equality",
			src:  "_ == null",
			want: true,
		},
		{
			name:  "index_negative",
			src:   "_[-1]",
			input: []any{int64(1), int64(2), int64(3)},
			want:  int64(3),
		},
		{
			name:  "slice",
			src:   "_[1:3]",
			input: []any{int64(1), int64(2), int64(3), int64(4)},
			want:  []any{int64(2), int64(3)},
		},
		{
			name:  "open_slice_negative",
			src:   "_[:-1]",
			input: []any{int64(1), int64(2), int64(3)},
			want:  []any{int64(1), int64(2)},
		},
		{
			name: "string_index",
			src:  "'abc'[1]",
			want: "b",
		},
		{
			name: "dict_literal",
			src:  "{'a': 1, 'b': 'x'}",
			want: map[string]any{"a": int64(1), "b": "x"},
		},
		{
			name: "setup_statements",
			src:  "x = 2; y = 3; x * y",
			want: int64(6),
		},
		{
			name:  "for_loop_accumulates",
			src:   "total = 0\nfor i in _ { total = total + i }\ntotal",
			input: []any{int64(1), int64(2), int64(3)},
			want:  int64(6),
		},
		{
			name:  "if_else",
			src:   "x = 0\nif _ > 2 { x = 1 } else { x = 2 }\nx",
			input: int64(5),
			want:  int64(1),
		},
		{
			name:  "else_if_chain",
			src:   "x = 0\nif _ == 1 { x = 1 } else if _ == 2 { x = 2 } else { x = 3 }\nx",
			input: int64(2),
			want:  int64(2),
		},
		{
			name:  "attribute_assignment_mutates_document",
			src:   "_.a = 5\n_.a",
			input: map[string]any{"a": int64(1)},
			want:  int64(5),
		},
		{
			name:  "index_assignment_on_list",
			src:   "_[0] = 9\n_",
			input: []any{int64(1), int64(2)},
			want:  []any{int64(9), int64(2)},
		},
		{
			name:  "bracket_access_bypasses_masking",
			src:   "_['keys']",
			input: map[string]any{"keys": "secret"},
			want:  "secret",
		},
		{
			name:  "accessor_keys_call",
			src:   "_.keys()",
			input: map[string]any{"b": int64(2), "a": int64(1)},
			want:  []any{"a", "b"},
		},
		{
			name:  "accessor_get_with_default",
			src:   "_.get('missing', 'fallback')",
			input: map[string]any{"a": int64(1)},
			want:  "fallback",
		},
		{
			name:  "iterate_object_yields_keys",
			src:   "[k for k in _]",
			input: map[string]any{"b": int64(2), "a": int64(1)},
			want:  []any{"a", "b"},
		},
		{
			name:    "missing_attribute",
			src:     "_.missing",
			input:   map[string]any{"a": int64(1)},
			wantErr: true,
		},
		{
			name:    "unknown_variable",
			src:     "nope",
			wantErr: true,
		},
		{
			name:    "division_by_zero",
			src:     "1 / 0",
			wantErr: true,
		},
		{
			name:    "non_boolean_condition",
			src:     "if 1 { 2 }\n_",
			wantErr: true,
		},
		{
			name:    "not_iterable",
			src:     "[i for i in 5]",
			wantErr: true,
		},
		{
			name:    "scalar_not_callable",
			src:     "_.a()",
			input:   map[string]any{"a": int64(1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runScript(tt.src, tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("runScript() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("runScript() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestEvalMaskedAttributeReturnsAccessor(t *testing.T) {
	t.Parallel()

	input := map[string]any{"keys": "secret"}

	program, err := Parse("_.keys")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	setup, final, err := program.Split()
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	interp := NewInterpreter(dotmap.Wrap(input), input)
	if err := interp.Run(setup); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	raw, err := interp.Eval(final)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}

	accessor, ok := raw.(dotmap.Accessor)
	if !ok {
		t.Fatalf("Eval() = %T, want dotmap.Accessor", raw)
	}
	if accessor.Name != "keys" {
		t.Fatalf("accessor name = %q, want keys", accessor.Name)
	}
}

func TestEvalLookupError(t *testing.T) {
	t.Parallel()

	_, err := runScript("_.missing", map[string]any{"a": int64(1)})
	if !errors.Is(err, dotmap.ErrLookup) {
		t.Fatalf("runScript() error = %v, want dotmap.ErrLookup", err)
	}
}

func TestBuiltins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		input   any
		want    any
		wantErr bool
	}{
		{name: "len_list", src: "len(_)", input: []any{int64(1), int64(2)}, want: int64(2)},
		{name: "len_string", src: "len('héllo')", want: int64(5)},
		{name: "len_object", src: "len(_)", input: map[string]any{"a": int64(1)}, want: int64(1)},
		{name: "str_number", src: "str(42)", want: "42"},
		{name: "str_object", src: "str(_)", input: map[string]any{"a": int64(1)}, want: `{"a":1}`},
		{name: "int_string", src: "int('17')", want: int64(17)},
		{name: "int_truncates", src: "int(3.9)", want: int64(3)},
		{name: "float_string", src: "float('2.5')", want: 2.5},
		{name: "keys_function", src: "keys(_)", input: map[string]any{"b": int64(1), "a": int64(2)}, want: []any{"a", "b"}},
		{name: "values_function", src: "values(_)", input: map[string]any{"b": int64(1), "a": int64(2)}, want: []any{int64(2), int64(1)}},
		{name: "sum_ints", src: "sum([1, 2, 3])", want: int64(6)},
		{name: "sum_mixed_is_float", src: "sum([1, 2.5])", want: 3.5},
		{name: "min", src: "min([3, 1, 2])", want: int64(1)},
		{name: "max_strings", src: "max(['a', 'c', 'b'])", want: "c"},
		{name: "sorted", src: "sorted([3, 1, 2])", want: []any{int64(1), int64(2), int64(3)}},
		{name: "range_single", src: "range(3)", want: []any{int64(0), int64(1), int64(2)}},
		{name: "range_step", src: "range(4, 0, -2)", want: []any{int64(4), int64(2)}},
		{name: "jsonpath", src: "jsonpath('$.a.b')", input: map[string]any{"a": map[string]any{"b": int64(1)}}, want: []any{int64(1)}},
		{name: "unknown_function", src: "bogus()", wantErr: true},
		{name: "len_wrong_arity", src: "len(1, 2)", wantErr: true},
		{name: "sum_non_number", src: "sum(['a'])", wantErr: true},
		{name: "min_empty", src: "min([])", wantErr: true},
		{name: "range_zero_step", src: "range(0, 5, 0)", wantErr: true},
		{name: "jsonpath_invalid", src: "jsonpath('$[')", input: map[string]any{"a": int64(1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runScript(tt.src, tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("runScript() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("runScript() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBuiltinUUID(t *testing.T) {
	t.Parallel()

	got, err := runScript("uuid()", nil)
	if err != nil {
		t.Fatalf("runScript() error = %v", err)
	}

	identifier, ok := got.(string)
	if !ok || len(identifier) != 36 {
		t.Fatalf("uuid() = %#v, want a 36 character string", got)
	}
}

func TestVariableShadowsBuiltin(t *testing.T) {
	t.Parallel()

	got, err := runScript("len = 3\nlen", nil)
	if err != nil {
		t.Fatalf("runScript() error = %v", err)
	}
	if got != int64(3) {
		t.Fatalf("runScript() = %v, want 3", got)
	}
}
