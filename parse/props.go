package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// KeyPolicy resolves duplicate property keys within one record.
type KeyPolicy int

const (
	// LastWins keeps the value of the last occurrence of a key.
	LastWins KeyPolicy = iota
	// FirstWins keeps the value of the first occurrence of a key.
	FirstWins
)

// PropertyTable is an ordered name->value mapping. Keys are unique; duplicate
// inserts are resolved by the table's KeyPolicy. The zero value is usable and
// applies LastWins.
type PropertyTable struct {
	policy KeyPolicy
	keys   []string
	values map[string]string
}

func NewPropertyTable(policy KeyPolicy) *PropertyTable {
	return &PropertyTable{policy: policy}
}

// Set inserts or resolves a key per the table's policy. First insertion order
// is preserved for duplicates.
func (t *PropertyTable) Set(key, value string) {
	if t.values == nil {
		t.values = map[string]string{}
	}
	if _, exists := t.values[key]; exists {
		if t.policy == LastWins {
			t.values[key] = value
		}
		return
	}
	t.keys = append(t.keys, key)
	t.values[key] = value
}

func (t *PropertyTable) Get(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (t *PropertyTable) Keys() []string {
	keys := make([]string, len(t.keys))
	copy(keys, t.keys)
	return keys
}

func (t *PropertyTable) Len() int { return len(t.keys) }

var (
	nonIdentRE    = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	underscoresRE = regexp.MustCompile(`_{2,}`)
)

// NormalizeKey turns a raw property tag (e.g. "RXN:VARIATION:PRODUCT:YIELD")
// into a stable lower-case identifier ("rxn_variation_product_yield").
// Returns "" for tags with no usable content.
func NormalizeKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	s = nonIdentRE.ReplaceAllString(s, "_")
	s = underscoresRE.ReplaceAllString(s, "_")
	s = strings.ToLower(s)
	return strings.TrimRight(s, "_")
}

var yieldREs = []*regexp.Regexp{
	// a single int or float
	regexp.MustCompile(`^([0-9]+\.?[0-9]?)$`),
	// two ints or floats separated by -,;: or space (a range; averaged)
	regexp.MustCompile(`^([0-9]+\.?[0-9]?)\s*[-,;:]?\s*([0-9]+\.?[0-9]?)$`),
}

// ParseYield extracts a numeric yield from a free-form yield string. A range
// like "87.0-92.0" averages its bounds. Returns false when no number is
// recognized.
func ParseYield(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	for _, re := range yieldREs {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		sum := 0.0
		for _, g := range m[1:] {
			v, err := strconv.ParseFloat(g, 64)
			if err != nil {
				return 0, false
			}
			sum += v
		}
		return sum / float64(len(m)-1), true
	}
	return 0, false
}
