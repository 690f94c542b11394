package chem

import (
	"errors"
	"fmt"
	"strings"
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

// fakeToolkit resolves every block to its name line as the canonical string
// and rejects blocks whose text contains rejectSubstr.
type fakeToolkit struct {
	rejectSubstr string
}

func (f fakeToolkit) ParseStructure(rawBlock string) (StructureHandle, error) {
	if f.rejectSubstr != "" && strings.Contains(rawBlock, f.rejectSubstr) {
		return nil, errors.New("toolkit rejected block")
	}
	return rawBlock, nil
}

func (f fakeToolkit) CanonicalString(h StructureHandle) string {
	return strings.TrimSpace(strings.SplitN(h.(string), "\n", 2)[0])
}
