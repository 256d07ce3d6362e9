package extract

// Field is an explicit optional extracted value. Each cascade stage
// produces Fields and composition is a left-biased merge: once a field is
// set by an earlier stage, later stages never overwrite it.
type Field struct {
	value string
	set   bool
}

// placeholders that count as "not found", allowing a later stage to still
// populate the field.
var placeholders = map[string]struct{}{
	"":               {},
	"Unknown Target": {},
	"Varies":         {},
}

// Some wraps a value as a Field. Empty strings and known placeholder text
// produce an unset Field.
func Some(v string) Field {
	if _, absent := placeholders[v]; absent {
		return Field{}
	}
	return Field{value: v, set: true}
}

// None is the unset Field.
func None() Field { return Field{} }

// Or returns f when set, otherwise other (left-biased merge).
func (f Field) Or(other Field) Field {
	if f.set {
		return f
	}
	return other
}

// OrFunc is Or with a lazily evaluated fallback, so later cascade stages
// only run when the field is still unset.
func (f Field) OrFunc(fn func() Field) Field {
	if f.set {
		return f
	}
	return fn()
}

// Value returns the contained value, or "" when unset.
func (f Field) Value() string { return f.value }

// IsSet reports whether the field was populated.
func (f Field) IsSet() bool { return f.set }
