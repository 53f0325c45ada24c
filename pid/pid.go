package pid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Templates for the two identifier generations, tried in this order.
const (
	V2Template = "Dyyyymmdd" + "THHMMSS_IFCB111any"
	V1Template = "IFCB1_yyyy_DDD_HHMMSSany"
)

// DefaultProduct is the product of an identifier without a product suffix.
const DefaultProduct = "raw"

// suffixRE is the grammar of the target/product/extension suffix that
// follows the bin part of an identifier.
var suffixRE = regexp.MustCompile(`^(?:_([0-9]+))?(?:_([a-zA-Z][a-zA-Z0-9_]*))?(?:\.([a-zA-Z][a-zA-Z0-9]*))?$`)

// Fields holds the components of an identifier.
//
// Generation 1 identifiers carry a day of year (YearDay); generation 2
// identifiers carry a month and day of month. An empty Product means the
// identifier has no product suffix.
type Fields struct {
	Namespace     string
	SchemaVersion int
	Instrument    int
	Year          int
	Month         int
	Day           int
	YearDay       int
	Hour          int
	Minute        int
	Second        int
	Target        int // 0 means no target
	Product       string
	Extension     string
}

// PID is a parsed permanent identifier. The zero value is not valid; use Parse.
//
// PID is immutable: methods that change a component return a new value.
type PID struct {
	raw       string
	fields    Fields
	binLID    string
	timestamp time.Time
}

// Parse parses an identifier string.
//
// Any leading path or URL (everything up to and including the last '/' or '\')
// is retained as the namespace.
func Parse(s string) (PID, error) {
	namespace, name := splitNamespace(s)

	f := Fields{Namespace: namespace}
	var (
		groups map[string]string
		ok     bool
	)
	if groups, ok = Match(V2Template, name); ok {
		f.SchemaVersion = 2
		f.Month = atoi(groups["mm"])
		f.Day = atoi(groups["dd"])
	} else if groups, ok = Match(V1Template, name); ok {
		f.SchemaVersion = 1
		f.YearDay = atoi(groups["DDD"])
	} else {
		return PID{}, syntaxError(s, "no identifier generation matches")
	}
	f.Instrument = atoi(groups["n1"])
	f.Year = atoi(groups["yyyy"])
	f.Hour = atoi(groups["HH"])
	f.Minute = atoi(groups["MM"])
	f.Second = atoi(groups["SS"])

	tail := groups["any"]
	binLID := name[:len(name)-len(tail)]

	if err := parseSuffix(s, tail, &f); err != nil {
		return PID{}, err
	}

	ts, err := timestampOf(f)
	if err != nil {
		return PID{}, syntaxError(s, err.Error())
	}
	if f.SchemaVersion == 1 {
		f.Month = int(ts.Month())
		f.Day = ts.Day()
	}

	return PID{raw: s, fields: f, binLID: binLID, timestamp: ts}, nil
}

// MustParse is like Parse but panics on error. It simplifies tests and
// package-level identifiers.
func MustParse(s string) PID {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Valid reports whether s is a valid identifier.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func splitNamespace(s string) (namespace, name string) {
	i := strings.LastIndexAny(s, `/\`)
	if i < 0 {
		return "", s
	}
	return s[:i+1], s[i+1:]
}

func parseSuffix(input, tail string, f *Fields) error {
	if tail == "" {
		return nil
	}
	m := suffixRE.FindStringSubmatch(tail)
	if m == nil {
		return syntaxError(input, fmt.Sprintf("invalid target, product, or extension %q", tail))
	}
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 || formatTarget(n) != m[1] {
			return syntaxError(input, fmt.Sprintf("invalid target %q", m[1]))
		}
		f.Target = n
	}
	f.Product = m[2]
	f.Extension = m[3]
	return nil
}

func timestampOf(f Fields) (time.Time, error) {
	switch f.SchemaVersion {
	case 1:
		start := time.Date(f.Year, time.January, 1, f.Hour, f.Minute, f.Second, 0, time.UTC)
		ts := start.AddDate(0, 0, f.YearDay-1)
		if f.YearDay < 1 || ts.Year() != f.Year {
			return time.Time{}, fmt.Errorf("day of year %03d out of range for %d", f.YearDay, f.Year)
		}
		return ts, nil
	case 2:
		ts := time.Date(f.Year, time.Month(f.Month), f.Day, f.Hour, f.Minute, f.Second, 0, time.UTC)
		if ts.Month() != time.Month(f.Month) || ts.Day() != f.Day {
			return time.Time{}, fmt.Errorf("%04d-%02d-%02d is not a calendar date", f.Year, f.Month, f.Day)
		}
		return ts, nil
	default:
		return time.Time{}, fmt.Errorf("unknown schema version %d", f.SchemaVersion)
	}
}

// Unparse formats identifier fields as a string. It is the exact inverse of
// Parse: Unparse(MustParse(s).Fields()) == s.
func Unparse(f Fields) (string, error) {
	var b strings.Builder
	b.WriteString(f.Namespace)
	switch f.SchemaVersion {
	case 1:
		fmt.Fprintf(&b, "IFCB%1d_%04d_%03d_%02d%02d%02d", f.Instrument, f.Year, f.YearDay, f.Hour, f.Minute, f.Second)
	case 2:
		fmt.Fprintf(&b, "D%04d%02d%02dT%02d%02d%02d_IFCB%03d", f.Year, f.Month, f.Day, f.Hour, f.Minute, f.Second, f.Instrument)
	default:
		return "", fmt.Errorf("%w: unknown schema version %d", ErrInvalidIdentifier, f.SchemaVersion)
	}
	if f.Target > 0 {
		b.WriteByte('_')
		b.WriteString(formatTarget(f.Target))
	}
	if f.Product != "" {
		b.WriteByte('_')
		b.WriteString(f.Product)
	}
	if f.Extension != "" {
		b.WriteByte('.')
		b.WriteString(f.Extension)
	}
	return b.String(), nil
}

func formatTarget(n int) string {
	return fmt.Sprintf("%05d", n)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// String returns the identifier exactly as it was parsed.
func (p PID) String() string { return p.raw }

// Fields returns the parsed components.
func (p PID) Fields() Fields { return p.fields }

// Namespace returns the leading path or URL prefix, if any.
func (p PID) Namespace() string { return p.fields.Namespace }

// BinLID returns the bin identifier without namespace, target, product, or extension.
func (p PID) BinLID() string { return p.binLID }

// LID returns the bin LID followed by the target number, if there is one.
func (p PID) LID() string {
	if p.fields.Target > 0 {
		return p.binLID + "_" + formatTarget(p.fields.Target)
	}
	return p.binLID
}

// SchemaVersion returns 1 or 2.
func (p PID) SchemaVersion() int { return p.fields.SchemaVersion }

// Instrument returns the instrument number.
func (p PID) Instrument() int { return p.fields.Instrument }

// Timestamp returns the acquisition start time in UTC.
func (p PID) Timestamp() time.Time { return p.timestamp }

// Target returns the target number and whether the identifier names one.
func (p PID) Target() (int, bool) { return p.fields.Target, p.fields.Target > 0 }

// Product returns the product, DefaultProduct if none is given.
func (p PID) Product() string {
	if p.fields.Product == "" {
		return DefaultProduct
	}
	return p.fields.Product
}

// Extension returns the file extension without the leading dot.
func (p PID) Extension() string { return p.fields.Extension }

// IsZero reports whether p is the zero PID.
func (p PID) IsZero() bool { return p.raw == "" }

// WithTarget returns the identifier of target n of this bin: the namespace,
// the bin LID and a five-digit target number. Product and extension are dropped.
// Target numbers start at 1; for n <= 0 the result identifies the bin itself.
func (p PID) WithTarget(n int) PID {
	f := p.fields
	f.Target = max(n, 0)
	f.Product = ""
	f.Extension = ""
	return p.with(f)
}

// WithoutNamespace returns the identifier with its namespace removed.
func (p PID) WithoutNamespace() PID {
	f := p.fields
	f.Namespace = ""
	return p.with(f)
}

func (p PID) with(f Fields) PID {
	raw, _ := Unparse(f)
	return PID{raw: raw, fields: f, binLID: p.binLID, timestamp: p.timestamp}
}

// Compare orders identifiers by their string form.
func (p PID) Compare(other PID) int {
	return strings.Compare(p.raw, other.raw)
}
