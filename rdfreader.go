// Package rdfreader streams reaction records out of MDL RDF (reaction-data)
// files: a lazy, pull-based, fault-tolerant reader that yields one outcome
// per record without holding the file in memory, plus a matching writer.
// Structure interpretation is delegated to a chem.Toolkit.
package rdfreader

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/deepmatterltd/rdfreader/chem"
	"github.com/deepmatterltd/rdfreader/parse"
)

// Config carries construction-time options for a Reader. The zero value is
// usable: CTF header format, both except flags off, last-write-wins duplicate
// keys, passthrough toolkit, no logging.
type Config struct {
	// HeaderFormat is the fixed-column format of the rxn block header line;
	// parse.CTFRxnHeaderFormat when empty. Vendor dumps may need
	// parse.SPRESIRxnHeaderFormat.
	HeaderFormat string
	FieldMapping map[byte]parse.FieldSpec

	// ExceptOnInvalidMolecule escalates a toolkit-rejected molblock into a
	// record-level failure instead of yielding a placeholder molecule.
	ExceptOnInvalidMolecule bool
	// ExceptOnInvalidReaction surfaces a record-level failure as the error of
	// that Read call instead of a Skip outcome. The reader stays usable
	// either way.
	ExceptOnInvalidReaction bool

	DuplicateKeyPolicy parse.KeyPolicy
	Toolkit            chem.Toolkit
	Logger             *zap.Logger
}

// Outcome is the per-record result of one Read: either an assembled Reaction
// or a Skip naming why the record was dropped.
type Outcome struct {
	Reaction *chem.Reaction  // non-nil on success
	Skip     *BadRecordError // non-nil when the record was skipped
	Line     int             // record start line
}

// Skipped tells whether this record failed and was skipped.
func (o *Outcome) Skipped() bool { return o.Skip != nil }

// Reader is a single-pass, forward-only iterator over the records of one RDF
// stream. It neither opens nor closes the underlying input, does no work
// until pulled, and is restarted only by constructing a new Reader.
type Reader struct {
	inputName  string
	cursor     *parse.LineCursor
	cfg        Config
	meta       map[string]string
	headerDone bool
}

// NewReader creates a Reader over r. cfg may be nil for defaults.
func NewReader(inputName string, r io.Reader, cfg *Config) *Reader {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	if c.HeaderFormat == "" {
		c.HeaderFormat = parse.CTFRxnHeaderFormat
	}
	if c.FieldMapping == nil {
		c.FieldMapping = parse.DefaultFieldMapping
	}
	if c.Toolkit == nil {
		c.Toolkit = chem.Passthrough{}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return &Reader{
		inputName: inputName,
		cursor:    parse.NewLineCursor(r),
		cfg:       c,
	}
}

// Metadata returns the file header fields ("version", "date_stamp"),
// consuming the header lines if no record has been read yet.
func (r *Reader) Metadata() map[string]string {
	r.readHeader()
	return r.meta
}

// readHeader consumes the optional $RDFILE/$DATM file header lines.
func (r *Reader) readHeader() {
	if r.headerDone {
		return
	}
	r.headerDone = true
	r.meta = map[string]string{}
	if line, err := r.cursor.Peek(); err == nil && parse.Classify(line) == parse.KindRDFile {
		_, _ = r.cursor.Next()
		r.meta["version"] = parse.LineItem(line, len(parse.SenRDFile)+1, len(line))
	}
	if line, err := r.cursor.Peek(); err == nil && parse.Classify(line) == parse.KindDatestamp {
		_, _ = r.cursor.Next()
		r.meta["date_stamp"] = parse.LineItem(line, len(parse.SenDatestamp)+1, len(line))
	}
}

// Read pulls the next record and returns its Outcome. io.EOF terminates the
// stream. With ExceptOnInvalidReaction set, a failed record comes back as a
// *BadRecordError instead of a Skip outcome; the reader has already
// re-synchronized, so the caller may keep reading (see IsContinuableError).
func (r *Reader) Read() (*Outcome, error) {
	r.readHeader()
	line, err := r.cursor.Next()
	switch {
	case err == io.EOF:
		return nil, io.EOF
	case err != nil:
		return nil, ErrInvalidRDF(r.fmtErrStr(err.Error()))
	}
	if parse.Classify(line) != parse.KindRecordStart {
		return nil, ErrInvalidRDF(r.fmtErrStr(
			"expected '%s', got '%s'", parse.SenRecordStart, line))
	}
	id := parseRegNum(line)
	startLine := r.cursor.Line()

	span, endedAtEOF, err := r.collectSpan()
	if err != nil {
		return nil, err
	}
	outcome := r.assemble(span, id, startLine, endedAtEOF)
	if outcome.Skip != nil {
		r.cfg.Logger.Warn("record skipped",
			zap.String("input", r.inputName),
			zap.Int("line", outcome.Line),
			zap.String("reason", string(outcome.Skip.Reason)))
		if r.cfg.ExceptOnInvalidReaction {
			return nil, outcome.Skip
		}
	}
	return outcome, nil
}

// collectSpan gathers the record's lines up to (not including) the next
// record start sentinel, or the end of input.
func (r *Reader) collectSpan() (span []string, endedAtEOF bool, err error) {
	for {
		next, err := r.cursor.Peek()
		switch {
		case err == io.EOF:
			return span, true, nil
		case err != nil:
			return nil, false, ErrInvalidRDF(r.fmtErrStr(err.Error()))
		}
		if parse.Classify(next) == parse.KindRecordStart {
			return span, false, nil
		}
		line, _ := r.cursor.Next()
		span = append(span, line)
	}
}

func (r *Reader) assemble(span []string, id string, startLine int, endedAtEOF bool) *Outcome {
	skip := func(reason Reason, cause error) *Outcome {
		return &Outcome{
			Line: startLine,
			Skip: &BadRecordError{Reason: reason, Line: startLine, Err: cause},
		}
	}
	if len(span) == 0 {
		// back-to-back record starts: the prior record merged into this one.
		return skip(ReasonDesynchronizedRecord, nil)
	}
	if endedAtEOF && lastKind(span) == parse.KindPropTag {
		// the stream ended right after a property tag, mid-record.
		return skip(ReasonUnterminatedRecord, nil)
	}
	rxn, err := chem.NewReaction(strings.Join(span, "\n")+"\n", chem.Options{
		ID:                      id,
		Line:                    startLine,
		FileMetadata:            r.meta,
		HeaderFormat:            r.cfg.HeaderFormat,
		FieldMapping:            r.cfg.FieldMapping,
		ExceptOnInvalidMolecule: r.cfg.ExceptOnInvalidMolecule,
		KeyPolicy:               r.cfg.DuplicateKeyPolicy,
		Toolkit:                 r.cfg.Toolkit,
		Logger:                  r.cfg.Logger,
	})
	if err != nil {
		var mismatch parse.ErrCountMismatch
		var truncated parse.ErrTruncatedBlock
		var invalidMol chem.ErrInvalidMolecule
		switch {
		case errors.As(err, &mismatch):
			return skip(ReasonStructuralMismatch, err)
		case errors.As(err, &truncated):
			if endedAtEOF {
				return skip(ReasonUnterminatedRecord, err)
			}
			return skip(ReasonDesynchronizedRecord, err)
		case errors.As(err, &invalidMol):
			return skip(ReasonInvalidMolecule, err)
		default:
			return skip(ReasonInvalidReaction, err)
		}
	}
	return &Outcome{Reaction: rxn, Line: startLine}
}

// lastKind classifies the last non-empty line of a span.
func lastKind(span []string) parse.LineKind {
	for i := len(span) - 1; i >= 0; i-- {
		if strings.TrimSpace(span[i]) != "" {
			return parse.Classify(span[i])
		}
	}
	return parse.KindOther
}

// parseRegNum extracts the registry id from a record start line, e.g.
// "$RFMT $RIREG 4620744" -> "4620744".
func parseRegNum(line string) string {
	s := strings.TrimSpace(strings.TrimPrefix(line, parse.SenRecordStart))
	for _, reg := range []string{parse.SenIntRegistry, parse.SenExtRegistry} {
		if strings.HasPrefix(s, reg) {
			return strings.TrimSpace(strings.TrimPrefix(s, reg))
		}
	}
	return s
}

// IsContinuableError tells whether the reader can keep going after `err`
// returned from Read.
func (r *Reader) IsContinuableError(err error) bool {
	return !IsErrInvalidRDF(err) && err != io.EOF
}

// FmtErr formats an error with input/position context.
func (r *Reader) FmtErr(format string, args ...interface{}) error {
	return errors.New(r.fmtErrStr(format, args...))
}

func (r *Reader) fmtErrStr(format string, args ...interface{}) string {
	return fmt.Sprintf("input '%s' line %d: %s",
		r.inputName, r.cursor.Line(), fmt.Sprintf(format, args...))
}
