package sep10

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/sdkerr"
	"github.com/stellar-txkit/internal/txnbuild"
)

var (
	ErrUnknownChallenge = sdkerr.New(sdkerr.KindValidation, "sep10_unknown_challenge", "challenge was not issued, already used or expired")
	// ErrAccountNotFound is returned by a SignerSource for accounts that do
	// not exist on the network.
	ErrAccountNotFound = errors.New("account not found")
)

type nonceEntry struct {
	nonce     string
	expiresAt time.Time
}

// NonceStore remembers issued challenges until they are used or expire.
type NonceStore struct {
	mu      sync.Mutex
	entries map[string]nonceEntry
	now     func() time.Time
}

func NewNonceStore() *NonceStore {
	return &NonceStore{entries: make(map[string]nonceEntry), now: time.Now}
}

// Add records nonce and returns the id the client sends back with it.
func (s *NonceStore) Add(nonce string, expiresAt time.Time) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = nonceEntry{nonce: nonce, expiresAt: expiresAt}
	return id
}

// Consume removes the challenge id if it carries nonce and has not expired.
func (s *NonceStore) Consume(id, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	e, ok := s.entries[id]
	if !ok {
		return ErrUnknownChallenge.Withf("challenge %s is unknown or expired", id)
	}
	if e.nonce != nonce {
		return ErrUnknownChallenge.Withf("challenge %s was issued with another nonce", id)
	}
	delete(s.entries, id)
	return nil
}

// Len returns the number of outstanding challenges.
func (s *NonceStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// SignerSource looks up the signers and medium threshold of an account.
type SignerSource interface {
	Signers(ctx context.Context, account string) ([]Signer, int32, error)
}

// SignerSourceFunc adapts a function to SignerSource.
type SignerSourceFunc func(ctx context.Context, account string) ([]Signer, int32, error)

func (f SignerSourceFunc) Signers(ctx context.Context, account string) ([]Signer, int32, error) {
	return f(ctx, account)
}

type ServerConfig struct {
	Key           *keypair.Full
	HomeDomain    string
	WebAuthDomain string
	Network       network.Network
	Timeout       time.Duration
	// Signers is optional; without it only the client master key is
	// accepted.
	Signers SignerSource
}

// Server issues challenges and verifies them once, against the signers the
// account has on the network.
type Server struct {
	cfg   ServerConfig
	store *NonceStore
	now   func() time.Time
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Key == nil {
		return nil, ErrInvalidChallenge.Withf("server key is required")
	}
	if cfg.HomeDomain == "" {
		return nil, ErrInvalidChallenge.Withf("home domain is required")
	}
	if cfg.WebAuthDomain == "" {
		cfg.WebAuthDomain = cfg.HomeDomain
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Server{cfg: cfg, store: NewNonceStore(), now: time.Now}, nil
}

// Challenge builds a challenge for account and returns its id and envelope.
func (s *Server) Challenge(ctx context.Context, account string, memo *uint64) (id, envelope string, err error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	now := s.now()
	tx, err := BuildChallenge(ChallengeParams{
		ServerKey:     s.cfg.Key,
		ClientAccount: account,
		HomeDomain:    s.cfg.HomeDomain,
		WebAuthDomain: s.cfg.WebAuthDomain,
		Network:       s.cfg.Network,
		Timeout:       s.cfg.Timeout,
		Now:           now,
		Memo:          memo,
	})
	if err != nil {
		return "", "", err
	}
	envelope, err = tx.Base64()
	if err != nil {
		return "", "", err
	}
	nonce := tx.Operations()[0].(*txnbuild.ManageData).Value
	id = s.store.Add(string(nonce), now.Add(s.cfg.Timeout))
	log.Debug().Str("account", account).Str("challenge_id", id).Msg("issued challenge")
	return id, envelope, nil
}

// Verify checks a signed challenge and consumes its id. It returns the
// client account and the signers that signed.
func (s *Server) Verify(ctx context.Context, id, envelope string) (account string, signers []string, err error) {
	c, err := ReadChallenge(envelope, ReadParams{
		ServerAccount: s.cfg.Key.Address(),
		Network:       s.cfg.Network,
		HomeDomains:   []string{s.cfg.HomeDomain},
		WebAuthDomain: s.cfg.WebAuthDomain,
		Now:           s.now(),
	})
	if err != nil {
		return "", nil, err
	}
	if err := s.store.Consume(id, c.Nonce); err != nil {
		return "", nil, err
	}

	master, err := MasterKey(c.ClientAccount)
	if err != nil {
		return "", nil, err
	}
	accountSigners := []Signer{{Key: master, Weight: 1}}
	var threshold int32
	if s.cfg.Signers != nil {
		found, medium, err := s.cfg.Signers.Signers(ctx, master)
		switch {
		case errors.Is(err, ErrAccountNotFound):
		case err != nil:
			return "", nil, err
		default:
			accountSigners, threshold = found, medium
		}
	}
	signed, err := VerifySigners(c, s.cfg.Key.Address(), s.cfg.Network, accountSigners, threshold)
	if err != nil {
		log.Info().Err(err).Str("account", c.ClientAccount).Msg("challenge rejected")
		return "", nil, err
	}
	log.Info().Str("account", c.ClientAccount).Strs("signers", signed).Msg("challenge verified")
	return c.ClientAccount, signed, nil
}
