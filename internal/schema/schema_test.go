package schema

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/jacoelho/jello/internal/options"
	"github.com/jacoelho/jello/internal/theme"
)

func monoTheme() theme.Theme {
	return theme.New(options.Set{Mono: options.True()}.Effective(), theme.Env{})
}

func TestLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{
			name: "flat_object",
			value: map[string]any{
				"b": "x",
				"a": int64(1),
			},
			want: []string{
				`.a = 1;`,
				`.b = "x";`,
			},
		},
		{
			name: "nested",
			value: map[string]any{
				"user": map[string]any{
					"name": "alice",
					"tags": []any{"a", "b"},
				},
			},
			want: []string{
				`.user.name = "alice";`,
				`.user.tags[0] = "a";`,
				`.user.tags[1] = "b";`,
			},
		},
		{
			name:  "root_list",
			value: []any{int64(1), map[string]any{"a": true}},
			want: []string{
				`.[0] = 1;`,
				`.[1].a = true;`,
			},
		},
		{
			name:  "root_scalar",
			value: "hello",
			want:  []string{`. = "hello";`},
		},
		{
			name:  "null_leaf",
			value: map[string]any{"a": nil},
			want:  []string{`.a = null;`},
		},
		{
			name:  "float_leaf",
			value: map[string]any{"a": 2.5},
			want:  []string{`.a = 2.5;`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lines(tt.value, monoTheme())
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Lines() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFprint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Fprint(&buf, map[string]any{"a": int64(1)}, monoTheme()); err != nil {
		t.Fatalf("Fprint() error = %v", err)
	}

	if buf.String() != ".a = 1;\n" {
		t.Fatalf("Fprint() = %q", buf.String())
	}
}
