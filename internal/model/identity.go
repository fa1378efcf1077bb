package model

import (
	"cmp"

	"github.com/vmihailenco/msgpack/v5"
)

// TypeIdentity identifies a defined type by its fully qualified name.
// Namespace, Name and PkgName are derived from the same type object and only
// serve display, import rendering and collision checks.
type TypeIdentity struct {
	FQN       string // e.g., "example.com/app/model.Person"
	Namespace string // import path, e.g., "example.com/app/model"
	Name      string // e.g., "Person"
	PkgName   string // declared package name, e.g., "model"
}

// NewTypeIdentity builds an identity for the type name declared in pkgPath.
func NewTypeIdentity(pkgPath, pkgName, name string) TypeIdentity {
	fqn := name
	if pkgPath != "" {
		fqn = pkgPath + "." + name
	}

	return TypeIdentity{
		FQN:       fqn,
		Namespace: pkgPath,
		Name:      name,
		PkgName:   pkgName,
	}
}

// String returns the fully qualified name.
func (t TypeIdentity) String() string {
	return t.FQN
}

// Equal compares identities by fully qualified name only.
func (t TypeIdentity) Equal(other TypeIdentity) bool {
	return t.FQN == other.FQN
}

// IsZero reports whether the identity is unset.
func (t TypeIdentity) IsZero() bool {
	return t.FQN == ""
}

// EncodeMsgpack writes only the fully qualified name, keeping digests in
// agreement with Equal.
func (t TypeIdentity) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(t.FQN)
}

// CompareByName orders identities by short name, then fully qualified name.
func CompareByName(a, b TypeIdentity) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}

	return cmp.Compare(a.FQN, b.FQN)
}

// TypeRef is the resolved form of a type expression: a defined type,
// optionally behind one pointer.
type TypeRef struct {
	Identity TypeIdentity
	Pointer  bool
}

// String returns the reference in Go syntax with a fully qualified name.
func (r TypeRef) String() string {
	if r.Pointer {
		return "*" + r.Identity.FQN
	}

	return r.Identity.FQN
}

// TypePair is one declared source to destination mapping.
type TypePair struct {
	Source      TypeIdentity
	Destination TypeIdentity
}

// PairKey is the comparable form of a TypePair used for deduplication.
type PairKey struct {
	Source      string
	Destination string
}

// Key returns the deduplication key of the pair.
func (p TypePair) Key() PairKey {
	return PairKey{Source: p.Source.FQN, Destination: p.Destination.FQN}
}

// Equal compares both members by fully qualified name.
func (p TypePair) Equal(other TypePair) bool {
	return p.Source.Equal(other.Source) && p.Destination.Equal(other.Destination)
}

// String returns "source->destination".
func (p TypePair) String() string {
	return p.Source.FQN + "->" + p.Destination.FQN
}

// ComparePairs orders pairs by source, then destination fully qualified name.
func ComparePairs(a, b TypePair) int {
	if c := cmp.Compare(a.Source.FQN, b.Source.FQN); c != 0 {
		return c
	}

	return cmp.Compare(a.Destination.FQN, b.Destination.FQN)
}
