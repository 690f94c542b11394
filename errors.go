package rdfreader

import "fmt"

// ErrInvalidRDF indicates the input stream is not an RDF file (or suffered an
// IO failure). This is a fatal, non-continuable error.
type ErrInvalidRDF string

func (e ErrInvalidRDF) Error() string { return string(e) }

// IsErrInvalidRDF checks if the `err` is of ErrInvalidRDF type.
func IsErrInvalidRDF(err error) bool {
	switch err.(type) {
	case ErrInvalidRDF:
		return true
	default:
		return false
	}
}

// Reason classifies a record-level failure.
type Reason string

const (
	// ReasonStructuralMismatch: declared component counts disagree with the
	// molecule blocks present.
	ReasonStructuralMismatch Reason = "structural_mismatch"
	// ReasonInvalidMolecule: the toolkit rejected a molblock and
	// ExceptOnInvalidMolecule escalated it.
	ReasonInvalidMolecule Reason = "invalid_molecule"
	// ReasonInvalidReaction: the record span is not a decodable reaction
	// block.
	ReasonInvalidReaction Reason = "invalid_reaction"
	// ReasonUnterminatedRecord: the stream ended mid-record.
	ReasonUnterminatedRecord Reason = "unterminated_record"
	// ReasonDesynchronizedRecord: a new record start appeared before the
	// prior record was structurally complete.
	ReasonDesynchronizedRecord Reason = "desynchronized_record"
)

// BadRecordError reports one failed record. It is continuable: the reader has
// already re-synchronized to the next record start.
type BadRecordError struct {
	Reason Reason
	Line   int   // record start line
	Err    error // underlying cause, may be nil
}

func (e *BadRecordError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("record at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("record at line %d: %s: %s", e.Line, e.Reason, e.Err.Error())
}

func (e *BadRecordError) Unwrap() error { return e.Err }
