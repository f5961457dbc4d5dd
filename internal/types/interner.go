package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the built-in types.
type Builtins struct {
	Invalid     TypeID
	Void        TypeID
	Bool        TypeID
	Int         TypeID
	Float       TypeID
	Vec         [5]TypeID // Vec[2..4]
	IVec        [5]TypeID
	BVec        [5]TypeID
	Mat         [5]TypeID // Mat[2..4]
	Sampler2D   TypeID
	SamplerCube TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Structs are nominal: every RegisterStruct call yields a new TypeID.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins
	structs  []StructInfo
}

// NewInterner constructs an interner seeded with built-in types.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 64),
	}
	in.structs = append(in.structs, StructInfo{}) // reserve 0 as invalid sentinel
	b := &in.builtins
	b.Invalid = in.internRaw(Type{Kind: KindInvalid})
	b.Void = in.Intern(Type{Kind: KindVoid})
	b.Bool = in.Intern(Type{Kind: KindBool})
	b.Int = in.Intern(Type{Kind: KindInt})
	b.Float = in.Intern(Type{Kind: KindFloat})
	for n := uint32(2); n <= 4; n++ {
		b.Vec[n] = in.Intern(MakeVector(b.Float, n))
		b.IVec[n] = in.Intern(MakeVector(b.Int, n))
		b.BVec[n] = in.Intern(MakeVector(b.Bool, n))
		b.Mat[n] = in.Intern(MakeMatrix(b.Float, n))
	}
	b.Sampler2D = in.Intern(Type{Kind: KindSampler2D})
	b.SamplerCube = in.Intern(Type{Kind: KindSamplerCube})
	return in
}

// Builtins returns TypeIDs for built-in types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Kind returns the kind of id, KindInvalid for unknown ids.
func (in *Interner) Kind(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

// Vector returns the vector type of n components of the given scalar;
// n == 1 yields the scalar itself.
func (in *Interner) Vector(scalar TypeID, n int) TypeID {
	if n == 1 {
		return scalar
	}
	if n < 2 || n > 4 {
		return NoTypeID
	}
	return in.Intern(MakeVector(scalar, uint32(n)))
}

// Array returns the array type of count elements.
func (in *Interner) Array(elem TypeID, count uint32) TypeID {
	return in.Intern(MakeArray(elem, count))
}

type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Count   uint32
	Payload uint32
}
