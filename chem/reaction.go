package chem

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/deepmatterltd/rdfreader/parse"
)

// ErrNotReactionBlock reports a record span that is not a reaction block at
// all, or one whose header lines cannot be decoded.
type ErrNotReactionBlock struct {
	Err error
}

func (e ErrNotReactionBlock) Error() string {
	return "not a valid reaction block: " + e.Err.Error()
}

func (e ErrNotReactionBlock) Unwrap() error { return e.Err }

// Options configures reaction assembly from a raw record span.
type Options struct {
	ID           string            // registry id from the record start line
	Line         int               // start line of the record in the input
	FileMetadata map[string]string // version/date stamp of the containing file

	HeaderFormat string // fixed-column rxn header format; CTF default
	FieldMapping map[byte]parse.FieldSpec

	ExceptOnInvalidMolecule bool
	KeyPolicy               parse.KeyPolicy
	Toolkit                 Toolkit
	Logger                  *zap.Logger
}

func (o *Options) fill() {
	if o.HeaderFormat == "" {
		o.HeaderFormat = parse.CTFRxnHeaderFormat
	}
	if o.FieldMapping == nil {
		o.FieldMapping = parse.DefaultFieldMapping
	}
	if o.Toolkit == nil {
		o.Toolkit = Passthrough{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Reaction is one fully assembled record. Immutable once returned.
type Reaction struct {
	ID           string
	Line         int
	RXNBlock     string // the raw record span, verbatim
	FileMetadata map[string]string
	Metadata     parse.HeaderFields

	Reactants []*Molecule
	Products  []*Molecule
	Solvents  []*Molecule
	Catalysts []*Molecule
	Agents    []*Molecule

	Properties *parse.PropertyTable
}

// Reagents returns all auxiliary components as one list: catalysts, then
// solvents, then agents.
func (r *Reaction) Reagents() []*Molecule {
	out := make([]*Molecule, 0, len(r.Catalysts)+len(r.Solvents)+len(r.Agents))
	out = append(out, r.Catalysts...)
	out = append(out, r.Solvents...)
	return append(out, r.Agents...)
}

func joinCanonical(mols []*Molecule) string {
	var parts []string
	for _, m := range mols {
		if m.Canonical != "" {
			parts = append(parts, m.Canonical)
		}
	}
	return strings.Join(parts, ".")
}

// Canonical renders the reaction as "reactants > reagents > products" from
// the molecules' toolkit-derived canonical strings. Placeholder molecules are
// skipped.
func (r *Reaction) Canonical() string {
	return joinCanonical(r.Reactants) + ">" + joinCanonical(r.Reagents()) + ">" + joinCanonical(r.Products)
}

// CanonicalNoReagents is Canonical without the auxiliary components.
func (r *Reaction) CanonicalNoReagents() string {
	return joinCanonical(r.Reactants) + ">>" + joinCanonical(r.Products)
}

// NewReaction assembles a reaction from one raw record span. Failure modes:
// ErrNotReactionBlock (no $RXN header, undecodable header lines),
// parse.ErrCountMismatch, parse.ErrTruncatedBlock, and - when
// ExceptOnInvalidMolecule is set - ErrInvalidMolecule. With the flag off, a
// rejected molblock becomes a placeholder Molecule instead.
func NewReaction(block string, opts Options) (*Reaction, error) {
	opts.fill()
	if !parse.ValidateRXNBlock(block) {
		return nil, ErrNotReactionBlock{Err: errors.New("record does not start with " + parse.SenRXNHeader)}
	}
	meta, err := parse.RXNBlockMetadata(block, opts.HeaderFormat, opts.FieldMapping)
	if err != nil {
		return nil, ErrNotReactionBlock{Err: err}
	}
	r := &Reaction{
		ID:           opts.ID,
		Line:         opts.Line,
		RXNBlock:     block,
		FileMetadata: opts.FileMetadata,
		Metadata:     meta,
		Properties:   parse.NewPropertyTable(opts.KeyPolicy),
	}

	reactantCount := meta.Int("reactant_count")
	productCount := meta.Int("product_count")
	if reactantCount < 0 || productCount < 0 {
		return nil, ErrNotReactionBlock{Err: fmt.Errorf(
			"negative component count: %d reactant(s), %d product(s)", reactantCount, productCount)}
	}
	blocks, err := parse.SplitMolBlocks(block, reactantCount+productCount)
	if err != nil {
		return nil, err
	}
	for i, b := range blocks[:reactantCount] {
		m, err := NewMolecule(b, RoleReactant, i, opts.Toolkit, opts.ExceptOnInvalidMolecule)
		if err != nil {
			return nil, err
		}
		r.Reactants = append(r.Reactants, m)
	}
	for i, b := range blocks[reactantCount:] {
		m, err := NewMolecule(b, RoleProduct, i, opts.Toolkit, opts.ExceptOnInvalidMolecule)
		if err != nil {
			return nil, err
		}
		r.Products = append(r.Products, m)
	}

	data, dangling := parse.ScanData(strings.Split(block, "\n"))
	if dangling {
		opts.Logger.Warn("property tag with no value",
			zap.String("reaction", r.ID), zap.Int("line", r.Line))
	}
	for _, d := range data {
		if d.Key == "" {
			opts.Logger.Warn("property tag normalized to empty key, dropped",
				zap.String("reaction", r.ID), zap.Int("line", r.Line))
			continue
		}
		if d.MolBlock == "" {
			r.Properties.Set(d.Key, d.Value)
			continue
		}
		role := datumRole(d.Key)
		group := r.roleGroup(role)
		m, err := NewMolecule(d.MolBlock, role, len(*group), opts.Toolkit, opts.ExceptOnInvalidMolecule)
		if err != nil {
			return nil, err
		}
		*group = append(*group, m)
	}
	return r, nil
}

// datumRole infers an embedded molecule's component group from its property
// tag; tags naming neither catalyst nor solvent are generic agents.
func datumRole(key string) Role {
	role := RoleAgent
	for _, candidate := range []Role{RoleCatalyst, RoleSolvent} {
		if strings.Contains(key, string(candidate)) {
			role = candidate
		}
	}
	return role
}

func (r *Reaction) roleGroup(role Role) *[]*Molecule {
	switch role {
	case RoleCatalyst:
		return &r.Catalysts
	case RoleSolvent:
		return &r.Solvents
	default:
		return &r.Agents
	}
}

func (r *Reaction) String() string {
	return fmt.Sprintf("Reaction(%s, %s)", r.ID, r.Canonical())
}
