package config

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    Config
		wantErr error
	}{
		{
			name: "default_query",
			args: []string{"jello"},
			want: Config{Query: "_"},
		},
		{
			name: "query_argument",
			args: []string{"jello", "_.foo"},
			want: Config{Query: "_.foo"},
		},
		{
			name: "empty_query_falls_back",
			args: []string{"jello", ""},
			want: Config{Query: "_"},
		},
		{
			name: "initialize",
			args: []string{"jello", "-i", "_"},
			want: Config{Query: "_", Initialize: true},
		},
		{
			name: "yaml_input",
			args: []string{"jello", "-y"},
			want: Config{Query: "_", YAMLInput: true},
		},
		{
			name: "version",
			args: []string{"jello", "-v"},
			want: Config{Query: "_", Version: true},
		},
		{
			name:    "no_arguments",
			args:    nil,
			wantErr: ErrNoArguments,
		},
		{
			name:    "too_many_positionals",
			args:    []string{"jello", "_.a", "_.b"},
			wantErr: ErrTooManyArguments,
		},
		{
			name:    "help",
			args:    []string{"jello", "-h"},
			wantErr: ErrHelp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.args)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got.Query != tt.want.Query ||
				got.Initialize != tt.want.Initialize ||
				got.YAMLInput != tt.want.YAMLInput ||
				got.Version != tt.want.Version {
				t.Fatalf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseOutputFlags(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]string{"jello", "-c", "-l", "-m", "-n", "-r", "-s", "_"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	flags := cfg.Flags
	for name, pointer := range map[string]*bool{
		"compact": flags.Compact,
		"lines":   flags.Lines,
		"mono":    flags.Mono,
		"nulls":   flags.Nulls,
		"raw":     flags.Raw,
		"schema":  flags.Schema,
	} {
		if pointer == nil || !*pointer {
			t.Fatalf("flag %s not set: %v", name, pointer)
		}
	}
}

func TestParseLeavesUnsetFlagsUnset(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]string{"jello", "-c"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Flags.Compact == nil || !*cfg.Flags.Compact {
		t.Fatalf("compact = %v, want true", cfg.Flags.Compact)
	}
	if cfg.Flags.Raw != nil || cfg.Flags.Mono != nil {
		t.Fatalf("untouched flags should stay unset so prelude values win: %+v", cfg.Flags)
	}
}
