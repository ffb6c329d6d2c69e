package soroban

import (
	"math/big"
	"sort"

	"github.com/stellar-txkit/internal/xdr"
)

// MaxSymbolLength is the longest symbol a contract accepts.
const MaxSymbolLength = 32

func Bool(b bool) xdr.ScVal { return xdr.ScVal{Type: xdr.ScValTypeScvBool, B: &b} }

func Void() xdr.ScVal { return xdr.ScVal{Type: xdr.ScValTypeScvVoid} }

func U32(v uint32) xdr.ScVal { return xdr.ScVal{Type: xdr.ScValTypeScvU32, U32: &v} }

func I32(v int32) xdr.ScVal { return xdr.ScVal{Type: xdr.ScValTypeScvI32, I32: &v} }

func U64(v uint64) xdr.ScVal { return xdr.ScVal{Type: xdr.ScValTypeScvU64, U64: &v} }

func I64(v int64) xdr.ScVal { return xdr.ScVal{Type: xdr.ScValTypeScvI64, I64: &v} }

func Bytes(b []byte) xdr.ScVal {
	sb := xdr.ScBytes(append([]byte{}, b...))
	return xdr.ScVal{Type: xdr.ScValTypeScvBytes, Bytes: &sb}
}

func String(s string) xdr.ScVal {
	ss := xdr.ScString(s)
	return xdr.ScVal{Type: xdr.ScValTypeScvString, Str: &ss}
}

// Symbol returns a symbol value. Symbols are at most 32 characters from
// [a-zA-Z0-9_].
func Symbol(s string) (xdr.ScVal, error) {
	if len(s) > MaxSymbolLength {
		return xdr.ScVal{}, ErrSymbol.Withf("%q is longer than %d characters", s, MaxSymbolLength)
	}
	for _, r := range s {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return xdr.ScVal{}, ErrSymbol.Withf("%q contains %q", s, r)
		}
	}
	sym := xdr.ScSymbol(s)
	return xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &sym}, nil
}

// MustSymbol is Symbol for constant names.
func MustSymbol(s string) xdr.ScVal {
	v, err := Symbol(s)
	if err != nil {
		panic(err)
	}
	return v
}

func Vec(items ...xdr.ScVal) xdr.ScVal {
	vec := xdr.ScVec(append([]xdr.ScVal{}, items...))
	p := &vec
	return xdr.ScVal{Type: xdr.ScValTypeScvVec, Vec: &p}
}

// Map returns a map value with entries in the given order. The host rejects
// maps whose keys are not sorted.
func Map(entries ...xdr.ScMapEntry) xdr.ScVal {
	m := xdr.ScMap(append([]xdr.ScMapEntry{}, entries...))
	p := &m
	return xdr.ScVal{Type: xdr.ScValTypeScvMap, Map: &p}
}

// SymbolMap returns a map keyed by symbols, sorted the way the host
// compares them.
func SymbolMap(fields map[string]xdr.ScVal) (xdr.ScVal, error) {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	entries := make([]xdr.ScMapEntry, len(names))
	for i, name := range names {
		key, err := Symbol(name)
		if err != nil {
			return xdr.ScVal{}, err
		}
		entries[i] = xdr.ScMapEntry{Key: key, Val: fields[name]}
	}
	return Map(entries...), nil
}

// Address returns an address value for a G, M, C, B or L strkey.
func Address(s string) (xdr.ScVal, error) {
	a, err := xdr.ScAddressFromString(s)
	if err != nil {
		return xdr.ScVal{}, ErrAddress.Withf("%q", s).Wrap(err)
	}
	return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &a}, nil
}

var (
	two64   = new(big.Int).Lsh(big.NewInt(1), 64)
	maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	mask64  = new(big.Int).Sub(two64, big.NewInt(1))
)

// U128 returns a u128 value. v must be in [0, 2^128).
func U128(v *big.Int) (xdr.ScVal, error) {
	if v.Sign() < 0 || v.Cmp(maxU128) > 0 {
		return xdr.ScVal{}, ErrIntegerRange.Withf("%s does not fit in u128", v)
	}
	hi := new(big.Int).Rsh(v, 64)
	lo := new(big.Int).And(v, mask64)
	return xdr.ScVal{Type: xdr.ScValTypeScvU128, U128: &xdr.UInt128Parts{Hi: hi.Uint64(), Lo: lo.Uint64()}}, nil
}

// I128 returns an i128 value in two's complement hi/lo parts.
func I128(v *big.Int) (xdr.ScVal, error) {
	if v.Cmp(minI128) < 0 || v.Cmp(maxI128) > 0 {
		return xdr.ScVal{}, ErrIntegerRange.Withf("%s does not fit in i128", v)
	}
	u := new(big.Int).Set(v)
	if u.Sign() < 0 {
		u.Add(u, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	hi := new(big.Int).Rsh(u, 64)
	lo := new(big.Int).And(u, mask64)
	return xdr.ScVal{Type: xdr.ScValTypeScvI128, I128: &xdr.Int128Parts{Hi: int64(hi.Uint64()), Lo: lo.Uint64()}}, nil
}

// BigInt reads an integer value of any width. ok is false for non-integer
// values.
func BigInt(v xdr.ScVal) (*big.Int, bool) {
	switch v.Type {
	case xdr.ScValTypeScvU32:
		return new(big.Int).SetUint64(uint64(*v.U32)), true
	case xdr.ScValTypeScvI32:
		return big.NewInt(int64(*v.I32)), true
	case xdr.ScValTypeScvU64:
		return new(big.Int).SetUint64(*v.U64), true
	case xdr.ScValTypeScvI64:
		return big.NewInt(*v.I64), true
	case xdr.ScValTypeScvU128:
		out := new(big.Int).Lsh(new(big.Int).SetUint64(v.U128.Hi), 64)
		return out.Or(out, new(big.Int).SetUint64(v.U128.Lo)), true
	case xdr.ScValTypeScvI128:
		out := new(big.Int).Lsh(big.NewInt(v.I128.Hi), 64)
		return out.Add(out, new(big.Int).SetUint64(v.I128.Lo)), true
	}
	return nil, false
}
