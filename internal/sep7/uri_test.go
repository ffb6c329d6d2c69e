package sep7

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/stellartoml"
	"github.com/stellar-txkit/internal/txnbuild"
)

const (
	destination = "GCALNQQBXAPZ2WIRSDDBMSTAKCUH5SG6U76YBFLQLIXJTF7FE5AX7AOO"
	uriSeed     = "SBPOVRVKTTV7W3IOX2FJPSMPCJ5L2WU2YKTP3HCLYPXNI5MDIGREVNYC"
	uriAddress  = "GD7ACHBPHSC5OJMJZZBXA7Z5IAUFTH6E6XVLNBPASDQYJ7LO5UIYBDQW"
)

func envelope(t *testing.T) string {
	t.Helper()
	kp := keypair.MustParseFull("SCPIYARVXYX57PKJDAGRZOOK5PVGP42J3CT3WKERQB25R5F3EXUJFOLS")
	source := txnbuild.NewSimpleAccount(kp.Address(), 1)
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount: &source,
		Operations:    []txnbuild.Operation{&txnbuild.BumpSequence{BumpTo: 5}},
		BaseFee:       txnbuild.MinBaseFee,
		Preconditions: txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
	})
	require.NoError(t, err)
	b64, err := tx.Base64()
	require.NoError(t, err)
	return b64
}

func TestTxURI(t *testing.T) {
	b64 := envelope(t)
	u := NewTx(b64).
		Set(ParamCallback, "url:https://example.com/callback").
		Set(ParamMessage, "bump my sequence").
		Set(ParamReplace, "sourceAccount:X,operations[0].sourceAccount:Y;X:account to bump,Y:operation source")
	require.NoError(t, u.Validate())

	s := u.String()
	assert.True(t, strings.HasPrefix(s, "web+stellar:tx?xdr="))
	assert.Contains(t, s, "&msg=bump%20my%20sequence&")
	assert.Contains(t, s, "callback=url%3Ahttps%3A%2F%2Fexample.com%2Fcallback")

	parsed, err := Parse(s)
	require.NoError(t, err)
	assert.Equal(t, OperationTx, parsed.Operation)
	assert.Equal(t, []string{ParamXDR, ParamCallback, ParamMessage, ParamReplace}, parsed.Keys())
	assert.Equal(t, b64, parsed.Get(ParamXDR))
	assert.Equal(t, s, parsed.String())

	env, err := parsed.Envelope()
	require.NoError(t, err)
	require.NotNil(t, env.V1)
	assert.Len(t, env.V1.Tx.Operations, 1)

	replace, err := ParseReplace(parsed.Get(ParamReplace))
	require.NoError(t, err)
	assert.Equal(t, []Replacement{
		{Path: "sourceAccount", ID: "X", Hint: "account to bump"},
		{Path: "operations[0].sourceAccount", ID: "Y", Hint: "operation source"},
	}, replace)
	assert.Equal(t, parsed.Get(ParamReplace), FormatReplace(replace))
}

func TestPayURI(t *testing.T) {
	u := NewPay(destination).
		Set(ParamAmount, "120.1234567").
		Set(ParamMemo, "skdjfasf").
		Set(ParamMemoType, "MEMO_TEXT").
		Set(ParamMessage, "pay me with lumens")
	require.NoError(t, u.Validate())
	assert.Equal(t, "web+stellar:pay?destination="+destination+
		"&amount=120.1234567&memo=skdjfasf&memo_type=MEMO_TEXT&msg=pay%20me%20with%20lumens", u.String())

	parsed, err := Parse(u.String())
	require.NoError(t, err)
	assert.Equal(t, "pay me with lumens", parsed.Get(ParamMessage))

	_, err = parsed.Envelope()
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestSignMatchesPublishedVector(t *testing.T) {
	u := NewPay(destination).
		Set(ParamAmount, "120.1234567").
		Set(ParamMemo, "skdjfasf").
		Set(ParamMemoType, "MEMO_TEXT").
		Set(ParamMessage, "pay me with lumens")
	kp := keypair.MustParseFull(uriSeed)
	require.Equal(t, uriAddress, kp.Address())

	require.NoError(t, u.Sign(kp, "someDomain.com"))
	assert.Equal(t, "tbsLtlK/fouvRWk2UWFP47yHYeI1g1NEC/fEQvuXG6V8P+beLxplYbOVtTk1g94Wp97cHZ3pVJy/tZNYobl3Cw==", u.Get(ParamSignature))
	assert.True(t, strings.HasSuffix(u.String(),
		"&origin_domain=someDomain.com&signature=tbsLtlK%2FfouvRWk2UWFP47yHYeI1g1NEC%2FfEQvuXG6V8P%2BbeLxplYbOVtTk1g94Wp97cHZ3pVJy%2FtZNYobl3Cw%3D%3D"))
	assert.NoError(t, u.Verify(uriAddress))
}

func TestVerify(t *testing.T) {
	kp := keypair.MustParseFull(uriSeed)
	u := NewTx(envelope(t))
	require.NoError(t, u.Sign(kp, "example.com"))
	// fields added after signing still go before the signature
	u.Set(ParamPubkey, kp.Address())
	keys := u.Keys()
	assert.Equal(t, ParamSignature, keys[len(keys)-1])
	require.NoError(t, u.Sign(kp, "example.com"))

	parsed, err := Parse(u.String())
	require.NoError(t, err)
	require.NoError(t, parsed.Verify(uriAddress))

	err = parsed.Verify(destination)
	assert.ErrorIs(t, err, ErrSignature)

	tampered, err := Parse(strings.Replace(u.String(), "origin_domain=example.com", "origin_domain=evil.com", 1))
	require.NoError(t, err)
	assert.ErrorIs(t, tampered.Verify(uriAddress), ErrSignature)

	assert.ErrorIs(t, NewTx(envelope(t)).Verify(uriAddress), ErrNotSigned)
}

type staticResolver map[string]*stellartoml.Info

func (r staticResolver) Resolve(_ context.Context, domain string) (*stellartoml.Info, error) {
	info, ok := r[domain]
	if !ok {
		return nil, errors.New("no stellar.toml")
	}
	return info, nil
}

func TestVerifyOrigin(t *testing.T) {
	kp := keypair.MustParseFull(uriSeed)
	u := NewPay(destination)
	require.NoError(t, u.Sign(kp, "example.com"))

	resolver := staticResolver{
		"example.com": {URIRequestSigningKey: uriAddress},
		"other.com":   {},
	}
	assert.NoError(t, u.VerifyOrigin(context.Background(), resolver))

	u.Set(ParamOriginDomain, "other.com")
	assert.ErrorIs(t, u.VerifyOrigin(context.Background(), resolver), ErrSignature)

	u.Set(ParamOriginDomain, "missing.com")
	assert.ErrorContains(t, u.VerifyOrigin(context.Background(), resolver), "resolving missing.com: no stellar.toml")
}

func TestParseRejects(t *testing.T) {
	long := strings.Repeat("x", maxMessageLength+1)
	tests := []struct {
		name string
		uri  string
		want error
	}{
		{"scheme", "stellar:pay?destination=" + destination, ErrInvalidURI},
		{"operation", "web+stellar:swap?destination=" + destination, ErrInvalidURI},
		{"bad escape", "web+stellar:pay?destination=%zz", ErrInvalidURI},
		{"no destination", "web+stellar:pay?amount=1", ErrMissingParam},
		{"bad destination", "web+stellar:pay?destination=GABC", ErrInvalidParam},
		{"seed destination", "web+stellar:pay?destination=" + uriSeed, ErrInvalidParam},
		{"amount", "web+stellar:pay?destination=" + destination + "&amount=-1", ErrInvalidParam},
		{"issuer without code", "web+stellar:pay?destination=" + destination + "&asset_issuer=" + destination, ErrMissingParam},
		{"memo id", "web+stellar:pay?destination=" + destination + "&memo=abc&memo_type=MEMO_ID", ErrInvalidParam},
		{"memo hash", "web+stellar:pay?destination=" + destination + "&memo=AAAA&memo_type=MEMO_HASH", ErrInvalidParam},
		{"memo type", "web+stellar:pay?destination=" + destination + "&memo_type=MEMO_FOO", ErrInvalidParam},
		{"repeated", "web+stellar:pay?destination=" + destination + "&amount=1&amount=2", ErrInvalidParam},
		{"no xdr", "web+stellar:tx?callback=url:x", ErrMissingParam},
		{"bad xdr", "web+stellar:tx?xdr=AAAA", ErrInvalidParam},
		{"callback", "web+stellar:pay?destination=" + destination + "&callback=https://x", ErrInvalidParam},
		{"message", "web+stellar:pay?destination=" + destination + "&msg=" + long, ErrInvalidParam},
		{"origin without signature", "web+stellar:pay?destination=" + destination + "&origin_domain=example.com", ErrMissingParam},
		{"chain", "web+stellar:tx?xdr=AAAA&chain=web%2Bstellar%3Apay", ErrInvalidParam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.uri)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestChain(t *testing.T) {
	inner := NewTx(envelope(t))
	outer := NewTx(envelope(t)).Set(ParamChain, inner.String())
	parsed, err := Parse(outer.String())
	require.NoError(t, err)
	assert.Equal(t, inner.String(), parsed.Get(ParamChain))
}
