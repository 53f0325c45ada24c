package adc

// FieldPolicy decides what happens to a record whose field count differs from
// the schema.
type FieldPolicy int

const (
	// FieldsStrict rejects the record with a *FieldCountError.
	FieldsStrict FieldPolicy = iota
	// FieldsPad appends zero fields to short records. Long records are rejected.
	FieldsPad
	// FieldsTruncate drops trailing fields of long records. Short records are rejected.
	FieldsTruncate
)

func (p FieldPolicy) String() string {
	switch p {
	case FieldsStrict:
		return "strict"
	case FieldsPad:
		return "pad"
	case FieldsTruncate:
		return "truncate"
	}
	return "unknown"
}

type options struct {
	fieldPolicy FieldPolicy
}

// Option configures parsing.
type Option func(*options)

// WithFieldPolicy sets the field count policy. The default is FieldsStrict.
func WithFieldPolicy(p FieldPolicy) Option {
	return func(o *options) {
		o.fieldPolicy = p
	}
}

func applyOptions(optFns []Option) options {
	o := options{fieldPolicy: FieldsStrict}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
