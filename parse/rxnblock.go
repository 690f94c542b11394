package parse

import (
	"fmt"
	"strings"
)

// ErrCountMismatch reports a record whose declared component counts disagree
// with the molecule blocks actually present.
type ErrCountMismatch struct {
	Declared int
	Found    int
}

func (e ErrCountMismatch) Error() string {
	return fmt.Sprintf("declared %d molecule block(s), found %d", e.Declared, e.Found)
}

// ErrTruncatedBlock reports a molecule block that was started but never
// terminated with "M  END" before the next sentinel or the end of the record.
type ErrTruncatedBlock struct {
	Index int // 0-based index of the offending block within the record
}

func (e ErrTruncatedBlock) Error() string {
	return fmt.Sprintf("molecule block %d has no '%s' terminator", e.Index, MolEnd)
}

// ValidateRXNBlock tells whether a record span is a reaction block.
func ValidateRXNBlock(block string) bool {
	return strings.HasPrefix(block, SenRXNHeader)
}

// RXNBlockMetadata decodes the four header lines that follow the $RXN
// sentinel: reaction name, fixed-column program/date/registry header, comment,
// and the component count line ("rrrppp").
func RXNBlockMetadata(block, headerFormat string, mapping map[byte]FieldSpec) (HeaderFields, error) {
	lines := strings.SplitN(block, "\n", 6)
	if len(lines) < 5 {
		return nil, fmt.Errorf("reaction block header is incomplete: %d line(s)", len(lines))
	}
	meta, err := ParseHeaderLine(lines[2], headerFormat, mapping)
	if err != nil {
		return nil, err
	}
	counts, err := ParseHeaderLine(lines[4], ComponentCountFormat, mapping)
	if err != nil {
		return nil, err
	}
	for name, v := range counts {
		meta[name] = v
	}
	meta["reaction_name"] = strings.TrimSpace(lines[1])
	meta["comment"] = strings.TrimSpace(lines[3])
	return meta, nil
}

// SplitMolBlocks extracts the $MOL-delimited molecule blocks of a record, each
// trimmed at its "M  END" terminator (terminator included). Scanning stops at
// the property section; $MFMT molblocks embedded in data are not counted.
// A started block with no terminator is ErrTruncatedBlock; a block count that
// disagrees with declared is ErrCountMismatch.
func SplitMolBlocks(block string, declared int) ([]string, error) {
	lines := strings.Split(block, "\n")
	var blocks []string
	i := 0
scan:
	for ; i < len(lines); i++ {
		switch Classify(lines[i]) {
		case KindPropTag:
			break scan
		case KindMolStart:
			var body []string
			terminated := false
			j := i + 1
			for ; j < len(lines); j++ {
				kind := Classify(lines[j])
				if kind == KindMolStart || kind == KindPropTag || kind == KindRecordStart {
					break
				}
				body = append(body, lines[j])
				if kind == KindMolEnd {
					terminated = true
					break
				}
			}
			if !terminated {
				return nil, ErrTruncatedBlock{Index: len(blocks)}
			}
			blocks = append(blocks, strings.Join(body, "\n")+"\n")
			i = j
		}
	}
	if len(blocks) != declared {
		return nil, ErrCountMismatch{Declared: declared, Found: len(blocks)}
	}
	return blocks, nil
}
