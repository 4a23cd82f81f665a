// Package options defines the user-facing option surface shared by the
// prelude, the CLI flags, and the output formatters.
package options

// Set holds the twelve recognized options in tri-state form: a nil boolean
// or empty color name means unset. Sets merge in precedence order: built-in
// defaults, then prelude assignments, then per-invocation flags.
type Set struct {
	Compact *bool
	Raw     *bool
	Lines   *bool
	Nulls   *bool
	Mono    *bool
	Schema  *bool

	KeynameColor      string
	KeywordColor      string
	NumberColor       string
	StringColor       string
	ArrayidColor      string
	ArraybracketColor string
}

// Merge overlays over onto s, returning the combined set. Fields set in
// over win; unset fields fall through to s.
func (s Set) Merge(over Set) Set {
	out := s

	if over.Compact != nil {
		out.Compact = over.Compact
	}
	if over.Raw != nil {
		out.Raw = over.Raw
	}
	if over.Lines != nil {
		out.Lines = over.Lines
	}
	if over.Nulls != nil {
		out.Nulls = over.Nulls
	}
	if over.Mono != nil {
		out.Mono = over.Mono
	}
	if over.Schema != nil {
		out.Schema = over.Schema
	}

	if over.KeynameColor != "" {
		out.KeynameColor = over.KeynameColor
	}
	if over.KeywordColor != "" {
		out.KeywordColor = over.KeywordColor
	}
	if over.NumberColor != "" {
		out.NumberColor = over.NumberColor
	}
	if over.StringColor != "" {
		out.StringColor = over.StringColor
	}
	if over.ArrayidColor != "" {
		out.ArrayidColor = over.ArrayidColor
	}
	if over.ArraybracketColor != "" {
		out.ArraybracketColor = over.ArraybracketColor
	}

	return out
}

// Effective is the resolved option set consumed by the pipeline and the
// formatters, with unset booleans lowered to false.
type Effective struct {
	Compact bool
	Raw     bool
	Lines   bool
	Nulls   bool
	Mono    bool
	Schema  bool

	KeynameColor      string
	KeywordColor      string
	NumberColor       string
	StringColor       string
	ArrayidColor      string
	ArraybracketColor string
}

// Effective lowers the tri-state set into concrete values.
func (s Set) Effective() Effective {
	return Effective{
		Compact:           boolValue(s.Compact),
		Raw:               boolValue(s.Raw),
		Lines:             boolValue(s.Lines),
		Nulls:             boolValue(s.Nulls),
		Mono:              boolValue(s.Mono),
		Schema:            boolValue(s.Schema),
		KeynameColor:      s.KeynameColor,
		KeywordColor:      s.KeywordColor,
		NumberColor:       s.NumberColor,
		StringColor:       s.StringColor,
		ArrayidColor:      s.ArrayidColor,
		ArraybracketColor: s.ArraybracketColor,
	}
}

func boolValue(value *bool) bool {
	return value != nil && *value
}

// True returns a pointer suitable for a Set field.
func True() *bool {
	value := true
	return &value
}
