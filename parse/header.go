package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CTFile fixed-column header formats (see the CTFile spec). Each letter names
// a field; a run of the same letter is that field's column span. Callers may
// substitute their own format string for vendor variants.
const (
	CTFMolHeaderFormat    = "IIPPPPPPPPMMDDYYHHmmddSSssssssssssEEEEEEEEEEEERRRRRR"
	CTFRxnHeaderFormat    = "IIIIIIPPPPPPPPPMMDDYYYYHHmmRRRRRRR"
	SPRESIRxnHeaderFormat = "IIIIIIPPPPPPPPPPMMDDYYHHmmRRRRRRR"
	ComponentCountFormat  = "rrrppp"
)

type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
	FieldFloat
)

// FieldSpec maps a format-string letter to a named, typed header field.
type FieldSpec struct {
	Name    string
	Type    FieldType
	Default interface{}
}

// DefaultFieldMapping is the letter-to-field mapping of the CTFile spec.
var DefaultFieldMapping = map[byte]FieldSpec{
	'I': {Name: "user_initials", Type: FieldString},
	'P': {Name: "program_name", Type: FieldString},
	'M': {Name: "month", Type: FieldInt},
	'D': {Name: "day", Type: FieldInt},
	'Y': {Name: "year", Type: FieldInt},
	'H': {Name: "hour", Type: FieldInt},
	'm': {Name: "minute", Type: FieldInt},
	'd': {Name: "dimensional_codes", Type: FieldString},
	'S': {Name: "scaling_factor_1", Type: FieldInt},
	's': {Name: "scaling_factor_2", Type: FieldFloat},
	'E': {Name: "energy", Type: FieldFloat},
	'R': {Name: "registry_number", Type: FieldString},
	'r': {Name: "reactant_count", Type: FieldInt},
	'p': {Name: "product_count", Type: FieldInt},
}

// DateTimeField is the HeaderFields key under which the date parts of a
// header line are folded into a single time.Time.
const DateTimeField = "date_time"

// Span is one field's column range within a header line, 0-based,
// end-exclusive.
type Span struct {
	Letter byte
	Start  int
	End    int
}

// ParseFormat splits a format string into ordered column spans, one per run
// of a repeated letter.
func ParseFormat(format string) []Span {
	if format == "" {
		return nil
	}
	var spans []Span
	start := 0
	for i := 1; i <= len(format); i++ {
		if i == len(format) || format[i] != format[start] {
			spans = append(spans, Span{Letter: format[start], Start: start, End: i})
			start = i
		}
	}
	return spans
}

// LineItem extracts the [start,end) column range of a line and trims
// surrounding whitespace. Header lines are frequently shorter than the format
// string says, so the range is clamped rather than rejected.
func LineItem(line string, start, end int) string {
	if start > len(line) {
		start = len(line)
	}
	if end > len(line) {
		end = len(line)
	}
	if start >= end {
		return ""
	}
	return strings.TrimSpace(line[start:end])
}

// HeaderFields is a decoded header line: field name to typed value (string,
// int, float64, or time.Time under DateTimeField).
type HeaderFields map[string]interface{}

func (h HeaderFields) Str(name string) string {
	v, _ := h[name].(string)
	return v
}

func (h HeaderFields) Int(name string) int {
	v, _ := h[name].(int)
	return v
}

func (h HeaderFields) Float(name string) float64 {
	v, _ := h[name].(float64)
	return v
}

// Time returns the folded date_time field; zero if absent or unparseable.
func (h HeaderFields) Time() time.Time {
	v, _ := h[DateTimeField].(time.Time)
	return v
}

func zeroValue(t FieldType) interface{} {
	switch t {
	case FieldInt:
		return 0
	case FieldFloat:
		return float64(0)
	default:
		return ""
	}
}

func castItem(raw string, spec FieldSpec) (interface{}, error) {
	if raw == "" {
		if spec.Default != nil {
			return spec.Default, nil
		}
		return zeroValue(spec.Type), nil
	}
	switch spec.Type {
	case FieldInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("field '%s': '%s' is not an integer", spec.Name, raw)
		}
		return v, nil
	case FieldFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("field '%s': '%s' is not a number", spec.Name, raw)
		}
		return v, nil
	default:
		return raw, nil
	}
}

// ParseHeaderLine decodes one fixed-column header line per the format string
// and field mapping. Empty columns take the mapped default (or the type's
// zero); a column that fails its typed cast is an error. Date-part fields are
// folded into a single DateTimeField entry; an out-of-range date folds to the
// zero time rather than failing the whole line.
func ParseHeaderLine(line, format string, mapping map[byte]FieldSpec) (HeaderFields, error) {
	fields := HeaderFields{}
	for _, span := range ParseFormat(format) {
		spec, ok := mapping[span.Letter]
		if !ok {
			return nil, fmt.Errorf("format letter '%c' is not in the field mapping", span.Letter)
		}
		v, err := castItem(LineItem(line, span.Start, span.End), spec)
		if err != nil {
			return nil, err
		}
		fields[spec.Name] = v
	}
	foldDateTime(fields)
	return fields, nil
}

var datePartFields = []string{"year", "month", "day", "hour", "minute", "second"}

// foldDateTime replaces the individual date-part fields with one time.Time.
// CTFile dates carry no zone; UTC is assumed.
func foldDateTime(fields HeaderFields) {
	present := false
	part := func(name string) int {
		if v, ok := fields[name].(int); ok {
			present = true
			return v
		}
		return 0
	}
	year := part("year")
	month := part("month")
	day := part("day")
	hour := part("hour")
	minute := part("minute")
	second := part("second")
	if !present {
		return
	}
	for _, name := range datePartFields {
		delete(fields, name)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 ||
		hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		fields[DateTimeField] = time.Time{}
		return
	}
	fields[DateTimeField] = time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
}
