package pid

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// templateTokens lists the named tokens of the template language in the order
// they are tried at each position. Longer tokens come first.
var templateTokens = []struct {
	token string
	expr  string
}{
	{".ext", `(?:\.(?P<ext>[a-zA-Z][a-zA-Z0-9_]*))`},
	{"any", `(?P<any>.*)`},
	{"yyyy", `(?P<yyyy>[0-9]{4})`},
	{"DDD", `(?P<DDD>[0-3][0-9][0-9])`},
	{"mm", `(?P<mm>0[1-9]|1[0-2])`},
	{"dd", `(?P<dd>0[1-9]|[1-2][0-9]|3[0-1])`},
	{"HH", `(?P<HH>[0-1][0-9]|2[0-3])`},
	{"MM", `(?P<MM>[0-5][0-9])`},
	{"SS", `(?P<SS>[0-5][0-9])`},
	{"#", `[0-9]+`},
	{"i", `[a-zA-Z][a-zA-Z0-9_]*`},
	{".", `\.`},
}

// Expr converts a template into an anchored regular expression.
//
// A run of n identical digits d becomes the fixed-width group n<d>, e.g. "111"
// becomes (?P<n1>[0-9]{3}). A run of s characters becomes the variable-width
// millisecond group sss. Any character that is not part of a token is matched
// literally.
func Expr(template string) string {
	var b strings.Builder
	b.WriteByte('^')
	for i := 0; i < len(template); {
		rest := template[i:]

		if c := rest[0]; c >= '0' && c <= '9' {
			n := runLength(rest, c)
			b.WriteString(`(?P<n` + string(c) + `>[0-9]{` + strconv.Itoa(n) + `})`)
			i += n
			continue
		}
		if rest[0] == 's' {
			n := runLength(rest, 's')
			b.WriteString(`(?P<sss>[0-9]+)`)
			i += n
			continue
		}

		matched := false
		for _, t := range templateTokens {
			if strings.HasPrefix(rest, t.token) {
				b.WriteString(t.expr)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteString(regexp.QuoteMeta(rest[:1]))
			i++
		}
	}
	b.WriteByte('$')
	return b.String()
}

func runLength(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

var compiled sync.Map // template -> *regexp.Regexp

// Compile returns the compiled matcher for a template. Matchers are compiled
// once per template and shared.
func Compile(template string) (*regexp.Regexp, error) {
	if re, ok := compiled.Load(template); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(Expr(template))
	if err != nil {
		return nil, err
	}
	actual, _ := compiled.LoadOrStore(template, re)
	return actual.(*regexp.Regexp), nil
}

// Match matches s against a template and returns the named groups that
// participated in the match. ok is false when the template does not match.
func Match(template, s string) (groups map[string]string, ok bool) {
	re, err := Compile(template)
	if err != nil {
		return nil, false
	}
	idx := re.FindStringSubmatchIndex(s)
	if idx == nil {
		return nil, false
	}
	groups = make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name == "" || idx[2*i] < 0 {
			continue
		}
		groups[name] = s[idx[2*i]:idx[2*i+1]]
	}
	return groups, true
}
