package sep10

import (
	"strings"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/strkey"
)

// Signer is an account signer and its weight.
type Signer struct {
	Key    string
	Weight int32
}

// VerifySigners checks the client signatures of a challenge read by
// ReadChallenge. Every signature must belong to the server, the client
// domain key or one of signers, no signer may sign twice, and the summed
// weight must reach threshold. It returns the signers that signed.
func VerifySigners(c *Challenge, serverAccount string, n network.Network, signers []Signer, threshold int32) ([]string, error) {
	hash, err := c.Tx.Hash(n)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		kp     *keypair.FromAddress
		weight int32
	}
	var candidates []candidate
	seen := map[string]bool{serverAccount: true}
	for _, s := range signers {
		if seen[s.Key] || !strkey.IsValidEd25519PublicKey(s.Key) {
			continue
		}
		seen[s.Key] = true
		kp, err := keypair.ParseAddress(s.Key)
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{kp: kp, weight: s.Weight})
	}

	server, err := keypair.ParseAddress(serverAccount)
	if err != nil {
		return nil, err
	}
	var clientDomainKey *keypair.FromAddress
	if c.ClientSigningKey != "" {
		if clientDomainKey, err = keypair.ParseAddress(c.ClientSigningKey); err != nil {
			return nil, ErrInvalidChallenge.Wrap(err).Withf("client signing key")
		}
	}

	used := make(map[int]bool)
	var found []string
	var weight int32
	serverSigned, clientDomainSigned := false, false
	for _, sig := range c.Tx.Signatures() {
		hint := [4]byte(sig.Hint)
		switch {
		case hint == server.Hint() && server.Verify(hash[:], sig.Signature):
			serverSigned = true
			continue
		case clientDomainKey != nil && hint == clientDomainKey.Hint() && clientDomainKey.Verify(hash[:], sig.Signature):
			clientDomainSigned = true
			continue
		}
		matched := false
		for i, cand := range candidates {
			if hint != cand.kp.Hint() || !cand.kp.Verify(hash[:], sig.Signature) {
				continue
			}
			if used[i] {
				return nil, ErrSignature.Withf("%s signed more than once", cand.kp.Address())
			}
			used[i] = true
			matched = true
			found = append(found, cand.kp.Address())
			weight += cand.weight
			break
		}
		if !matched {
			return nil, ErrSignature.Withf("challenge has unrecognized signatures")
		}
	}

	if !serverSigned {
		return nil, ErrSignature.Withf("challenge is not signed by the server")
	}
	if clientDomainKey != nil && !clientDomainSigned {
		return nil, ErrSignature.Withf("challenge is not signed by the client domain key")
	}
	if len(found) == 0 {
		return nil, ErrSignature.Withf("challenge is not signed by the client")
	}
	if weight < threshold {
		return nil, ErrThreshold.Withf("weight %d is below threshold %d", weight, threshold)
	}
	return found, nil
}

// VerifyMasterKey verifies a challenge for an account that does not exist
// yet: only the account's own key may sign.
func VerifyMasterKey(c *Challenge, serverAccount string, n network.Network) error {
	master, err := MasterKey(c.ClientAccount)
	if err != nil {
		return err
	}
	_, err = VerifySigners(c, serverAccount, n, []Signer{{Key: master, Weight: 1}}, 0)
	return err
}

// MasterKey returns the G address behind a G or M client account.
func MasterKey(account string) (string, error) {
	if !strings.HasPrefix(account, "M") {
		return account, nil
	}
	m, err := strkey.DecodeMuxed(account)
	if err != nil {
		return "", ErrInvalidChallenge.Wrap(err).Withf("client account %q", account)
	}
	return m.AccountID(), nil
}
