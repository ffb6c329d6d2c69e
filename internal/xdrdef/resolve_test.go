package xdrdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, name, src string) *File {
	t.Helper()
	f, err := Parse(src, name)
	require.NoError(t, err)
	return f
}

func indexOf(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}

func TestResolveAcrossFiles(t *testing.T) {
	types := mustParse(t, "Stellar-types.x", typesX)
	ledger := mustParse(t, "Stellar-ledger.x", `
enum ClaimPredicateType
{
    CLAIM_PREDICATE_UNCONDITIONAL = 0,
    CLAIM_PREDICATE_AND = 1,
    CLAIM_PREDICATE_NOT = 3,
    CLAIM_PREDICATE_OTHER = CLAIM_PREDICATE_AND_ALIAS
};

enum Alias { CLAIM_PREDICATE_AND_ALIAS = CLAIM_PREDICATE_NOT };

union ClaimPredicate switch (ClaimPredicateType type)
{
case CLAIM_PREDICATE_UNCONDITIONAL:
    void;
case CLAIM_PREDICATE_AND:
    ClaimPredicate andPredicates<2>;
case CLAIM_PREDICATE_NOT:
    ClaimPredicate* notPredicate;
default:
    void;
};

struct Claimant
{
    AccountID destination;
    ClaimPredicate predicate;
    Signer signers[MAX_SIGNERS];
};
`)

	schema, err := Resolve(ledger, types)
	require.NoError(t, err)

	v, ok := schema.Value("PUBLIC_KEY_TYPE_ED25519")
	require.True(t, ok)
	assert.Equal(t, int64(0), v)
	// resolved through a chain of references, declared out of order
	v, ok = schema.Value("CLAIM_PREDICATE_OTHER")
	require.True(t, ok)
	assert.Equal(t, int64(3), v)

	def, ok := schema.Lookup("ClaimPredicate")
	require.True(t, ok)
	assert.Equal(t, DefUnion, def.Kind)
	assert.Equal(t, "Stellar-ledger.x", def.File)
	assert.Equal(t, []Dependency{{Type: "ClaimPredicateType"}, {Type: "ClaimPredicate", Indirect: true}}, schema.Dependencies("ClaimPredicate"))

	order := schema.Order()
	assert.Len(t, order, len(types.TypeNames())+len(ledger.TypeNames()))
	before := func(a, b string) {
		t.Helper()
		assert.Less(t, indexOf(order, a), indexOf(order, b), "%s before %s", a, b)
	}
	before("PublicKey", "AccountID")
	before("AccountID", "Claimant")
	before("ClaimPredicate", "Claimant")
	before("Signer", "Claimant")
	before("SignerExt", "Signer")
	before("Hash", "SignerExt")
	before("MuxedAccountMed25519", "MuxedAccount")

	assert.Equal(t, map[string][]string{
		"Stellar-ledger.x": {"Stellar-types.x"},
		"Stellar-types.x":  {},
	}, schema.FileDependencies())
	files, err := schema.FileOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"Stellar-types.x", "Stellar-ledger.x"}, files)
}

func TestResolveReportsProblems(t *testing.T) {
	f := mustParse(t, "bad.x", `
enum Color { RED = 0, GREEN = BLUE };
struct S
{
    Missing m;
    int xs<MAX_XS>;
};
union U switch (Color c)
{
case RED:
    void;
case PURPLE:
    int x;
};
union V switch (S s) { case 0: void; };
struct S { int dup; };
`)
	_, err := Resolve(f)
	require.Error(t, err)
	var resolveErr *ResolveError
	require.ErrorAs(t, err, &resolveErr)
	assert.ElementsMatch(t, []string{
		"bad.x:16: struct S already declared at bad.x:3",
		"bad.x:2: enum value GREEN refers to unknown constant BLUE",
		"bad.x:5: S.m: unknown type Missing",
		"bad.x:6: S.xs: unknown size constant MAX_XS",
		"bad.x:12: union U: PURPLE is not a value of Color",
		"bad.x:15: union V: discriminant S is a struct",
	}, resolveErr.Problems)
}

func TestResolveCycles(t *testing.T) {
	t.Run("direct cycle", func(t *testing.T) {
		f := mustParse(t, "c.x", `
struct A { B b; };
struct B { C c; };
typedef A C;
`)
		_, err := Resolve(f)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "type cycle without indirection: C -> A -> B -> C")
	})

	t.Run("cycle through optional found from either end", func(t *testing.T) {
		f := mustParse(t, "c.x", `
struct B { A* a; };
struct A { B b; };
`)
		schema, err := Resolve(f)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, schema.Order())
	})

	t.Run("self recursion through array", func(t *testing.T) {
		f := mustParse(t, "c.x", `struct Tree { Tree children<>; };`)
		_, err := Resolve(f)
		assert.NoError(t, err)
	})
}

func TestFileOrderRejectsMutualDependencies(t *testing.T) {
	a := mustParse(t, "a.x", `struct A { B* b; };`)
	b := mustParse(t, "b.x", `struct B { A* a; };`)
	schema, err := Resolve(a, b)
	require.NoError(t, err)
	_, err = schema.FileOrder()
	assert.ErrorContains(t, err, "circular file dependencies among a.x, b.x")
}
