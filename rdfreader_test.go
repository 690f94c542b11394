package rdfreader

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepmatterltd/rdfreader/chem"
)

const (
	testMolHeaderLine = "IIRDKitPrg05242214232D121.12345678  1.23456789REG001"
	testRxnHeaderLine = "RXNINIRDKitPrg 052420221455REG4242"
)

func testMolBlock(name string) string {
	return name + "\n" +
		testMolHeaderLine + "\n" +
		"sample comment\n" +
		"  1  0  0  0  0  0  0  0  0  0999 V2000\n" +
		"    0.0000    0.0000    0.0000 C   0  0\n" +
		"M  END\n"
}

func testRXNBlock(reactants, products int, names []string, propLines ...string) string {
	block := "$RXN\n" +
		"sample reaction\n" +
		testRxnHeaderLine + "\n" +
		"sample reaction comment\n" +
		fmt.Sprintf("%3d%3d\n", reactants, products)
	for _, name := range names {
		block += "$MOL\n" + testMolBlock(name)
	}
	for _, line := range propLines {
		block += line + "\n"
	}
	return block
}

// testRDF concatenates record spans into a full file with ids 1001, 1002, ...
func testRDF(records ...string) string {
	var b strings.Builder
	b.WriteString("$RDFILE 1\n$DATM 02/12/04 11:58\n")
	for i, rec := range records {
		fmt.Fprintf(&b, "$RFMT $RIREG %d\n", 1001+i)
		b.WriteString(rec)
	}
	return b.String()
}

// fakeToolkit resolves every block to its name line as the canonical string
// and rejects blocks containing rejectSubstr.
type fakeToolkit struct {
	rejectSubstr string
}

func (f fakeToolkit) ParseStructure(rawBlock string) (chem.StructureHandle, error) {
	if f.rejectSubstr != "" && strings.Contains(rawBlock, f.rejectSubstr) {
		return nil, errors.New("toolkit rejected block")
	}
	return rawBlock, nil
}

func (f fakeToolkit) CanonicalString(h chem.StructureHandle) string {
	return strings.TrimSpace(strings.SplitN(h.(string), "\n", 2)[0])
}

func readAll(t *testing.T, r *Reader) []*Outcome {
	t.Helper()
	var outcomes []*Outcome
	for {
		o, err := r.Read()
		if err == io.EOF {
			return outcomes
		}
		require.NoError(t, err)
		outcomes = append(outcomes, o)
	}
}

func TestReader_TwoRecords(t *testing.T) {
	rec1 := testRXNBlock(2, 1, []string{"CCO", "CC(=O)O", "CCOC(C)=O"},
		"$DTYPE RXN:VARIATION:PRODUCT:YIELD",
		"$DATUM 87.0")
	rec2 := testRXNBlock(1, 1, []string{"CC", "CCC"})
	input := testRDF(rec1, rec2)

	r := NewReader("test.rdf", strings.NewReader(input), &Config{Toolkit: fakeToolkit{}})
	outcomes := readAll(t, r)
	require.Len(t, outcomes, 2)

	first := outcomes[0]
	require.False(t, first.Skipped())
	assert.Equal(t, "1001", first.Reaction.ID)
	assert.Equal(t, 3, first.Line)
	assert.Equal(t, 3, first.Reaction.Line)
	assert.Equal(t, map[string]string{
		"version":    "1",
		"date_stamp": "02/12/04 11:58",
	}, first.Reaction.FileMetadata)
	require.Len(t, first.Reaction.Reactants, 2)
	require.Len(t, first.Reaction.Products, 1)
	v, ok := first.Reaction.Properties.Get("rxn_variation_product_yield")
	assert.True(t, ok)
	assert.Equal(t, "87.0", v)

	second := outcomes[1]
	require.False(t, second.Skipped())
	assert.Equal(t, "1002", second.Reaction.ID)
	assert.Equal(t, 3+strings.Count(rec1, "\n")+1, second.Line)
	require.Len(t, second.Reaction.Reactants, 1)
	require.Len(t, second.Reaction.Products, 1)
}

func TestReader_Metadata(t *testing.T) {
	r := NewReader("test.rdf", strings.NewReader(testRDF(testRXNBlock(1, 1, []string{"a", "b"}))), nil)
	assert.Equal(t, map[string]string{
		"version":    "1",
		"date_stamp": "02/12/04 11:58",
	}, r.Metadata())
	outcomes := readAll(t, r)
	assert.Len(t, outcomes, 1)
}

func TestReader_NoFileHeader(t *testing.T) {
	input := "$RFMT $RIREG 7\n" + testRXNBlock(1, 1, []string{"a", "b"})
	r := NewReader("test.rdf", strings.NewReader(input), nil)
	outcomes := readAll(t, r)
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Skipped())
	assert.Equal(t, "7", outcomes[0].Reaction.ID)
	assert.Equal(t, 1, outcomes[0].Line)
	assert.Empty(t, r.Metadata())
}

func TestReader_ResyncAfterMalformedRecord(t *testing.T) {
	good := testRXNBlock(1, 1, []string{"CCO", "CCC"})
	bad := testRXNBlock(2, 1, []string{"CCO", "CCC"}) // declares 3 components, has 2
	input := testRDF(good, bad, good)

	r := NewReader("test.rdf", strings.NewReader(input), &Config{Toolkit: fakeToolkit{}})
	outcomes := readAll(t, r)
	require.Len(t, outcomes, 3)
	assert.False(t, outcomes[0].Skipped())
	require.True(t, outcomes[1].Skipped())
	assert.Equal(t, ReasonStructuralMismatch, outcomes[1].Skip.Reason)
	// the malformed record never corrupts the following one.
	require.False(t, outcomes[2].Skipped())
	assert.Equal(t, "1003", outcomes[2].Reaction.ID)
}

func TestReader_DeclaredCountVsSentinels(t *testing.T) {
	// second record declares 2 reactants but carries a single $MOL before
	// its property section.
	rec1 := testRXNBlock(1, 1, []string{"a", "b"})
	rec2 := testRXNBlock(2, 0, []string{"a"},
		"$DTYPE RXN:NOTE",
		"$DATUM x")
	r := NewReader("test.rdf", strings.NewReader(testRDF(rec1, rec2)), nil)
	outcomes := readAll(t, r)
	require.Len(t, outcomes, 2)
	require.False(t, outcomes[0].Skipped())
	require.True(t, outcomes[1].Skipped())
	assert.Equal(t, ReasonStructuralMismatch, outcomes[1].Skip.Reason)
}

func TestReader_UnterminatedPropertyBlock(t *testing.T) {
	// input ends abruptly right after a property tag.
	input := testRDF(testRXNBlock(1, 1, []string{"a", "b"},
		"$DTYPE RXN:VARIATION:PRODUCT:YIELD"))
	r := NewReader("test.rdf", strings.NewReader(input), nil)

	o, err := r.Read()
	require.NoError(t, err)
	require.True(t, o.Skipped())
	assert.Equal(t, ReasonUnterminatedRecord, o.Skip.Reason)

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReader_UnterminatedMolBlock(t *testing.T) {
	input := testRDF("$RXN\nname\n" + testRxnHeaderLine + "\ncomment\n  1  0\n$MOL\nno terminator here\n")
	r := NewReader("test.rdf", strings.NewReader(input), nil)
	o, err := r.Read()
	require.NoError(t, err)
	require.True(t, o.Skipped())
	assert.Equal(t, ReasonUnterminatedRecord, o.Skip.Reason)
}

func TestReader_DesynchronizedRecord(t *testing.T) {
	// a new $RFMT arrives while the first record's molblock is still open.
	truncated := "$RXN\nname\n" + testRxnHeaderLine + "\ncomment\n  1  0\n$MOL\nstill open\n"
	input := testRDF(truncated, testRXNBlock(1, 1, []string{"a", "b"}))
	r := NewReader("test.rdf", strings.NewReader(input), nil)
	outcomes := readAll(t, r)
	require.Len(t, outcomes, 2)
	require.True(t, outcomes[0].Skipped())
	assert.Equal(t, ReasonDesynchronizedRecord, outcomes[0].Skip.Reason)
	assert.False(t, outcomes[1].Skipped())
}

func TestReader_BackToBackRecordStarts(t *testing.T) {
	input := "$RDFILE 1\n$DATM today\n$RFMT $RIREG 1\n$RFMT $RIREG 2\n" +
		testRXNBlock(1, 1, []string{"a", "b"})
	r := NewReader("test.rdf", strings.NewReader(input), nil)
	outcomes := readAll(t, r)
	require.Len(t, outcomes, 2)
	require.True(t, outcomes[0].Skipped())
	assert.Equal(t, ReasonDesynchronizedRecord, outcomes[0].Skip.Reason)
	require.False(t, outcomes[1].Skipped())
	assert.Equal(t, "2", outcomes[1].Reaction.ID)
}

func TestReader_MoleculePolicy(t *testing.T) {
	input := testRDF(testRXNBlock(2, 1, []string{"CCO", "BAD", "CCC"}))

	// placeholder branch: rejected block survives as an unresolved molecule.
	r := NewReader("test.rdf", strings.NewReader(input),
		&Config{Toolkit: fakeToolkit{rejectSubstr: "BAD"}})
	o, err := r.Read()
	require.NoError(t, err)
	require.False(t, o.Skipped())
	require.Len(t, o.Reaction.Reactants, 2)
	bad := o.Reaction.Reactants[1]
	assert.False(t, bad.Resolved())
	assert.Equal(t, chem.RoleReactant, bad.Role)
	assert.Contains(t, bad.MolBlock, "BAD")

	// escalation branch: the whole record is skipped.
	r = NewReader("test.rdf", strings.NewReader(input),
		&Config{Toolkit: fakeToolkit{rejectSubstr: "BAD"}, ExceptOnInvalidMolecule: true})
	o, err = r.Read()
	require.NoError(t, err)
	require.True(t, o.Skipped())
	assert.Equal(t, ReasonInvalidMolecule, o.Skip.Reason)
}

func TestReader_ExceptOnInvalidReaction(t *testing.T) {
	good := testRXNBlock(1, 1, []string{"a", "b"})
	bad := testRXNBlock(2, 1, []string{"a", "b"})
	input := testRDF(bad, good)

	r := NewReader("test.rdf", strings.NewReader(input),
		&Config{ExceptOnInvalidReaction: true})
	_, err := r.Read()
	require.Error(t, err)
	var rec *BadRecordError
	require.True(t, errors.As(err, &rec))
	assert.Equal(t, ReasonStructuralMismatch, rec.Reason)
	// the failure is continuable: the reader has re-synchronized.
	assert.True(t, r.IsContinuableError(err))

	o, err := r.Read()
	require.NoError(t, err)
	assert.False(t, o.Skipped())
	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReader_Idempotence(t *testing.T) {
	input := testRDF(
		testRXNBlock(1, 1, []string{"CCO", "CCC"}),
		testRXNBlock(2, 1, []string{"a", "b"}), // malformed
		testRXNBlock(1, 0, []string{"CC"}),
	)
	parseOnce := func() (ids []string, reasons []Reason) {
		r := NewReader("test.rdf", strings.NewReader(input), &Config{Toolkit: fakeToolkit{}})
		for _, o := range readAll(t, r) {
			if o.Skipped() {
				ids = append(ids, "")
				reasons = append(reasons, o.Skip.Reason)
				continue
			}
			ids = append(ids, o.Reaction.ID)
			reasons = append(reasons, "")
		}
		return ids, reasons
	}
	ids1, reasons1 := parseOnce()
	ids2, reasons2 := parseOnce()
	assert.Equal(t, ids1, ids2)
	assert.Equal(t, reasons1, reasons2)
	assert.Equal(t, []string{"1001", "", "1003"}, ids1)
}

func TestReader_NotAnRDFStream(t *testing.T) {
	r := NewReader("bogus.txt", strings.NewReader("just\nsome\ntext\n"), nil)
	_, err := r.Read()
	require.Error(t, err)
	assert.True(t, IsErrInvalidRDF(err))
	assert.False(t, r.IsContinuableError(err))
	assert.Contains(t, err.Error(), "bogus.txt")
}

func TestReader_EmptyInput(t *testing.T) {
	r := NewReader("empty.rdf", strings.NewReader(""), nil)
	_, err := r.Read()
	assert.Equal(t, io.EOF, err)
	assert.Empty(t, r.Metadata())
}
