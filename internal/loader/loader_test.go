package loader

import (
	"errors"
	"reflect"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    any
		wantErr bool
	}{
		{
			name:  "object",
			input: `{"a": 1, "b": "x"}`,
			want:  map[string]any{"a": int64(1), "b": "x"},
		},
		{
			name:  "integer_stays_integral",
			input: `{"n": 9007199254740993}`,
			want:  map[string]any{"n": int64(9007199254740993)},
		},
		{
			name:  "float",
			input: `{"n": 1.5}`,
			want:  map[string]any{"n": 1.5},
		},
		{
			name:  "scalar",
			input: `42`,
			want:  int64(42),
		},
		{
			name:  "list",
			input: `[1, "a", null, true]`,
			want:  []any{int64(1), "a", nil, true},
		},
		{
			name:  "json_lines",
			input: "{\"a\": 1}\n{\"a\": 2}\n",
			want: []any{
				map[string]any{"a": int64(1)},
				map[string]any{"a": int64(2)},
			},
		},
		{
			name:  "json_lines_scalars",
			input: "1\n2\n3\n",
			want:  []any{int64(1), int64(2), int64(3)},
		},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "not json", wantErr: true},
		{name: "mixed_garbage_line", input: "{\"a\": 1}\nnope\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrLoad) {
					t.Fatalf("Load() error = %v, want ErrLoad", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Load() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	input := "name: alice\ncount: 3\nratio: 1.5\nitems:\n  - a\n  - b\n"

	got, err := LoadYAML([]byte(input))
	if err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}

	want := map[string]any{
		"name":  "alice",
		"count": int64(3),
		"ratio": 1.5,
		"items": []any{"a", "b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("LoadYAML() = %#v, want %#v", got, want)
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	t.Parallel()

	if _, err := LoadYAML([]byte(":\n  - ]")); err == nil {
		t.Fatalf("LoadYAML() error = nil, want failure")
	}
}
