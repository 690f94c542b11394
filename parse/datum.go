package parse

import (
	"regexp"
	"strings"
)

// Datum is one $DTYPE/$DATUM pair from a record's property section. Exactly
// one of Value/MolBlock is populated: a $DATUM whose first line is $MFMT
// embeds a raw molblock instead of a plain value.
type Datum struct {
	Key      string // normalized tag, see NormalizeKey
	Value    string // plain value; embedded newlines preserved
	MolBlock string // raw molblock of an $MFMT datum
}

var datumPrefixRE = regexp.MustCompile(`^\$DATUM\s?`)

// ScanData walks a record span and extracts its $DTYPE/$DATUM pairs. Value
// lines run until the next $DTYPE or the end of the span; a line ending in
// "+" continues on the next line. A tag with no value lines at all is still
// returned (empty value); dangling reports whether that happened on the very
// last tag of the span, so the caller can tell a truncated record from a
// merely malformed property.
func ScanData(lines []string) (data []Datum, dangling bool) {
	for i := 0; i < len(lines); i++ {
		if Classify(lines[i]) != KindPropTag {
			continue
		}
		tag := strings.TrimSpace(strings.TrimPrefix(lines[i], SenPropTag))
		var b strings.Builder
		j := i + 1
		for ; j < len(lines) && Classify(lines[j]) != KindPropTag; j++ {
			line := lines[j]
			if strings.HasSuffix(line, "+") {
				b.WriteString(line[:len(line)-1])
			} else {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
		if j == i+1 && j >= len(lines) {
			dangling = true
		}
		raw := datumPrefixRE.ReplaceAllString(b.String(), "")
		d := Datum{Key: NormalizeKey(tag)}
		if strings.HasPrefix(raw, SenEmbeddedMol) {
			if nl := strings.IndexByte(raw, '\n'); nl >= 0 {
				d.MolBlock = raw[nl+1:]
			}
		} else {
			d.Value = strings.TrimSpace(raw)
		}
		data = append(data, d)
		i = j - 1
	}
	return data, dangling
}
