package parse

import (
	"fmt"
	"strings"
)

const largeRegnoPrefix = "M  REG "

// MolBlockMetadata decodes a molblock's three header lines: molecule name,
// fixed-column header, and comment. When the block carries an overflow
// registry number ("M  REG ..." property line), it overrides the one from the
// header columns.
func MolBlockMetadata(molBlock, headerFormat string, mapping map[byte]FieldSpec) (HeaderFields, error) {
	lines := strings.Split(molBlock, "\n")
	if len(lines) < 3 {
		return nil, fmt.Errorf("molecule block header is incomplete: %d line(s)", len(lines))
	}
	meta, err := ParseHeaderLine(lines[1], headerFormat, mapping)
	if err != nil {
		return nil, err
	}
	meta["molecule_name"] = strings.TrimSpace(lines[0])
	meta["comment"] = strings.TrimSpace(lines[2])
	for _, line := range lines {
		if strings.HasPrefix(line, largeRegnoPrefix) {
			meta["registry_number"] = LineItem(line, len(largeRegnoPrefix), len(line))
			break
		}
	}
	return meta, nil
}
