// Package chem holds the structured output units of RDF parsing (Molecule,
// Reaction) and the boundary to the external cheminformatics toolkit that
// interprets raw molblocks. Structure interpretation is delegated entirely:
// this package never inspects a structure handle.
package chem

// StructureHandle is an opaque reference to a structure object owned by the
// external toolkit. Its lifetime and internals belong to the toolkit.
type StructureHandle interface{}

// Toolkit is the consumed interface of an external chemistry-structure
// library (e.g. an RDKit or OpenBabel binding).
type Toolkit interface {
	// ParseStructure interprets a raw molblock. An error means the block is
	// not a valid structure.
	ParseStructure(rawBlock string) (StructureHandle, error)
	// CanonicalString renders a handle as a canonical textual representation
	// (typically SMILES).
	CanonicalString(h StructureHandle) string
}

// Passthrough is the default Toolkit: it accepts every block without
// interpretation, using the raw text itself as the handle, and renders no
// canonical form. It keeps the reader usable without a cheminformatics
// binding.
type Passthrough struct{}

func (Passthrough) ParseStructure(rawBlock string) (StructureHandle, error) {
	return rawBlock, nil
}

func (Passthrough) CanonicalString(StructureHandle) string { return "" }
