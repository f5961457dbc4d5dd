package types

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/source"
)

// StructField describes a single field inside a struct type.
type StructField struct {
	Name string
	Type TypeID
	Span source.Span
}

// StructInfo stores metadata for a struct type.
type StructInfo struct {
	Name   string
	Decl   source.Span
	Fields []StructField
}

// RegisterStruct allocates a nominal struct type and returns its TypeID.
func (in *Interner) RegisterStruct(name string, decl source.Span, fields []StructField) TypeID {
	slot, err := safecast.Conv[uint32](len(in.structs))
	if err != nil {
		panic(fmt.Errorf("struct info overflow: %w", err))
	}
	in.structs = append(in.structs, StructInfo{
		Name:   name,
		Decl:   decl,
		Fields: append([]StructField(nil), fields...),
	})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct || tt.Payload == 0 || int(tt.Payload) >= len(in.structs) {
		return nil, false
	}
	return &in.structs[tt.Payload], true
}

// Field finds a struct field by name.
func (in *Interner) Field(id TypeID, name string) (int, StructField, bool) {
	info, ok := in.StructInfo(id)
	if !ok {
		return -1, StructField{}, false
	}
	for i, f := range info.Fields {
		if f.Name == name {
			return i, f, true
		}
	}
	return -1, StructField{}, false
}
