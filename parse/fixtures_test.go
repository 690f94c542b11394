package parse

import "fmt"

// Shared test fixtures modeled on CTFile sample blocks.

const (
	testMolHeaderLine = "IIRDKitPrg05242214232D121.12345678  1.23456789REG001"
	testRxnHeaderLine = "RXNINIRDKitPrg 052420221455REG4242"
)

// testMolBlock builds a minimal molblock whose name line doubles as an
// identifier in assertions.
func testMolBlock(name string) string {
	return name + "\n" +
		testMolHeaderLine + "\n" +
		"sample comment\n" +
		"  1  0  0  0  0  0  0  0  0  0999 V2000\n" +
		"    0.0000    0.0000    0.0000 C   0  0\n" +
		"M  END\n"
}

// testRXNBlock builds a reaction block declaring the given counts with one
// $MOL block per name and an optional trailing property section.
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
