package chem

import (
	"fmt"

	"github.com/deepmatterltd/rdfreader/parse"
)

// Role is a molecule's component group within a reaction. Reactant and
// product follow from ordinal position against the record's count header;
// solvent, catalyst and agent come from the property section.
type Role string

const (
	RoleReactant Role = "reactant"
	RoleProduct  Role = "product"
	RoleSolvent  Role = "solvent"
	RoleCatalyst Role = "catalyst"
	RoleAgent    Role = "agent"
)

// ErrInvalidMolecule reports a molblock the toolkit rejected, while
// ExceptOnInvalidMolecule is on.
type ErrInvalidMolecule struct {
	Role  Role
	Index int // ordinal within the role group
	Err   error
}

func (e ErrInvalidMolecule) Error() string {
	return fmt.Sprintf("invalid %s molecule %d: %s", e.Role, e.Index, e.Err.Error())
}

// Molecule is one component occurrence of a reaction. Immutable once created.
type Molecule struct {
	Role     Role
	Index    int    // ordinal within the role group, 0-based
	MolBlock string // raw block, always preserved

	// Structure is the toolkit's handle; nil for a placeholder molecule
	// whose block the toolkit rejected.
	Structure StructureHandle
	// Canonical is the toolkit's canonical rendering; empty for placeholders.
	Canonical string

	Properties *parse.PropertyTable
}

// Resolved tells whether the toolkit produced a structure for this molecule.
func (m *Molecule) Resolved() bool { return m.Structure != nil }

// Metadata decodes the molblock's header lines (name, program/date columns,
// comment, overflow registry number).
func (m *Molecule) Metadata() (parse.HeaderFields, error) {
	return parse.MolBlockMetadata(m.MolBlock, parse.CTFMolHeaderFormat, parse.DefaultFieldMapping)
}

// NewMolecule interprets a raw molblock through the toolkit. When the toolkit
// rejects the block and exceptOnInvalid is off, a placeholder molecule is
// returned: raw text and role preserved, no structure.
func NewMolecule(molBlock string, role Role, index int, tk Toolkit, exceptOnInvalid bool) (*Molecule, error) {
	if tk == nil {
		tk = Passthrough{}
	}
	m := &Molecule{
		Role:       role,
		Index:      index,
		MolBlock:   molBlock,
		Properties: parse.NewPropertyTable(parse.LastWins),
	}
	h, err := tk.ParseStructure(molBlock)
	if err != nil {
		if exceptOnInvalid {
			return nil, ErrInvalidMolecule{Role: role, Index: index, Err: err}
		}
		return m, nil
	}
	m.Structure = h
	m.Canonical = tk.CanonicalString(h)
	return m, nil
}
