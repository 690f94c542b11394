// Package parse implements the line-level grammar of MDL CTFile RDF files:
// sentinel classification, fixed-column header decoding, $DTYPE/$DATUM data
// scanning and molblock splitting. It knows nothing about chemistry; raw
// molblocks are passed through opaquely.
package parse

import "strings"

// Sentinel tokens of the RDF grammar. Classification is by literal prefix;
// anything unmatched is content of whatever block is currently open.
const (
	SenRDFile      = "$RDFILE" // file header, version
	SenDatestamp   = "$DATM"   // file header, date stamp
	SenRecordStart = "$RFMT"   // one reaction record; also closes the previous one
	SenIntRegistry = "$RIREG"  // internal registry number, follows $RFMT
	SenExtRegistry = "$REREG"  // external registry number, follows $RFMT
	SenRXNHeader   = "$RXN"    // reaction block header
	SenMolStart    = "$MOL"    // molecule block start
	SenPropTag     = "$DTYPE"  // property tag
	SenPropDatum   = "$DATUM"  // property value
	SenEmbeddedMol = "$MFMT"   // molblock embedded in a $DATUM
	MolEnd         = "M  END"  // molblock terminator
)

type LineKind int

const (
	KindOther LineKind = iota
	KindRDFile
	KindDatestamp
	KindRecordStart
	KindRXNHeader
	KindMolStart
	KindPropTag
	KindPropDatum
	KindEmbeddedMol
	KindMolEnd
)

// Classify maps a physical line to its structural kind by fixed-prefix match.
func Classify(line string) LineKind {
	switch {
	case strings.HasPrefix(line, SenRDFile):
		return KindRDFile
	case strings.HasPrefix(line, SenDatestamp):
		return KindDatestamp
	case strings.HasPrefix(line, SenRecordStart):
		return KindRecordStart
	case strings.HasPrefix(line, SenRXNHeader):
		return KindRXNHeader
	case strings.HasPrefix(line, SenMolStart):
		return KindMolStart
	case strings.HasPrefix(line, SenPropTag):
		return KindPropTag
	case strings.HasPrefix(line, SenPropDatum):
		return KindPropDatum
	case strings.HasPrefix(line, SenEmbeddedMol):
		return KindEmbeddedMol
	case strings.HasPrefix(line, MolEnd):
		return KindMolEnd
	default:
		return KindOther
	}
}
