// Package stellartoml reads SEP-1 stellar.toml documents.
package stellartoml

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/rs/zerolog/log"

	"github.com/stellar-txkit/internal/sdkerr"
	"github.com/stellar-txkit/internal/strkey"
)

const (
	WellKnownPath   = "/.well-known/stellar.toml"
	maxDocumentSize = 100 * 1024
	defaultCacheTTL = 5 * time.Minute
	maxCurrencies   = 100
	maxAssetCodeLen = 12
)

var (
	ErrInvalidDocument = sdkerr.New(sdkerr.KindDecode, "toml_invalid_document", "stellar.toml is not valid TOML")
	ErrInvalidField    = sdkerr.New(sdkerr.KindValidation, "toml_invalid_field", "invalid stellar.toml field")
)

// Info holds the stellar.toml fields the SDK consumes.
type Info struct {
	Version               string     `toml:"VERSION"`
	NetworkPassphrase     string     `toml:"NETWORK_PASSPHRASE"`
	FederationServer      string     `toml:"FEDERATION_SERVER"`
	AuthServer            string     `toml:"AUTH_SERVER"`
	TransferServer        string     `toml:"TRANSFER_SERVER"`
	TransferServerSep0024 string     `toml:"TRANSFER_SERVER_SEP0024"`
	KYCServer             string     `toml:"KYC_SERVER"`
	WebAuthEndpoint       string     `toml:"WEB_AUTH_ENDPOINT"`
	SigningKey            string     `toml:"SIGNING_KEY"`
	HorizonURL            string     `toml:"HORIZON_URL"`
	Accounts              []string   `toml:"ACCOUNTS"`
	URIRequestSigningKey  string     `toml:"URI_REQUEST_SIGNING_KEY"`
	DirectPaymentServer   string     `toml:"DIRECT_PAYMENT_SERVER"`
	AnchorQuoteServer     string     `toml:"ANCHOR_QUOTE_SERVER"`
	Documentation         *OrgInfo   `toml:"DOCUMENTATION"`
	Currencies            []Currency `toml:"CURRENCIES"`
}

type OrgInfo struct {
	Name          string `toml:"ORG_NAME"`
	URL           string `toml:"ORG_URL"`
	OfficialEmail string `toml:"ORG_OFFICIAL_EMAIL"`
}

// Currency is one [[CURRENCIES]] entry.
type Currency struct {
	Code            string `toml:"code"`
	Issuer          string `toml:"issuer"`
	Contract        string `toml:"contract"`
	Status          string `toml:"status"`
	DisplayDecimals int    `toml:"display_decimals"`
	Name            string `toml:"name"`
	Desc            string `toml:"desc"`
	AnchorAssetType string `toml:"anchor_asset_type"`
	IsAssetAnchored bool   `toml:"is_asset_anchored"`
	AnchorAsset     string `toml:"anchor_asset"`
}

// Parse decodes and validates a stellar.toml document.
func Parse(data []byte) (*Info, error) {
	var info Info
	if err := toml.Unmarshal(data, &info); err != nil {
		return nil, ErrInvalidDocument.Wrap(err)
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}
	return &info, nil
}

// Validate checks the keys, urls and currencies of a parsed document.
func (i *Info) Validate() error {
	keys := []struct {
		field, value string
	}{
		{"SIGNING_KEY", i.SigningKey},
		{"URI_REQUEST_SIGNING_KEY", i.URIRequestSigningKey},
	}
	for _, k := range keys {
		if k.value != "" && !strkey.IsValidEd25519PublicKey(k.value) {
			return ErrInvalidField.Withf("%s %q is not an account id", k.field, k.value)
		}
	}
	for n, a := range i.Accounts {
		if !strkey.IsValidEd25519PublicKey(a) {
			return ErrInvalidField.Withf("ACCOUNTS[%d] %q is not an account id", n, a)
		}
	}

	endpoints := map[string]string{
		"FEDERATION_SERVER":       i.FederationServer,
		"AUTH_SERVER":             i.AuthServer,
		"TRANSFER_SERVER":         i.TransferServer,
		"TRANSFER_SERVER_SEP0024": i.TransferServerSep0024,
		"KYC_SERVER":              i.KYCServer,
		"WEB_AUTH_ENDPOINT":       i.WebAuthEndpoint,
		"HORIZON_URL":             i.HorizonURL,
		"DIRECT_PAYMENT_SERVER":   i.DirectPaymentServer,
		"ANCHOR_QUOTE_SERVER":     i.AnchorQuoteServer,
	}
	for field, v := range endpoints {
		if v == "" {
			continue
		}
		u, err := url.Parse(v)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return ErrInvalidField.Withf("%s %q is not an http(s) url", field, v)
		}
	}
	if i.WebAuthEndpoint != "" && i.SigningKey == "" {
		return ErrInvalidField.Withf("WEB_AUTH_ENDPOINT requires SIGNING_KEY")
	}

	if len(i.Currencies) > maxCurrencies {
		return ErrInvalidField.Withf("%d currencies, at most %d allowed", len(i.Currencies), maxCurrencies)
	}
	for n, c := range i.Currencies {
		if c.Code == "" || len(c.Code) > maxAssetCodeLen {
			return ErrInvalidField.Withf("CURRENCIES[%d] code %q must be 1-%d characters", n, c.Code, maxAssetCodeLen)
		}
		if c.Issuer != "" && !strkey.IsValidEd25519PublicKey(c.Issuer) {
			return ErrInvalidField.Withf("CURRENCIES[%d] issuer %q is not an account id", n, c.Issuer)
		}
		if c.Contract != "" {
			if _, err := strkey.Decode(strkey.VersionByteContract, c.Contract); err != nil {
				return ErrInvalidField.Withf("CURRENCIES[%d] contract %q is not a contract id", n, c.Contract)
			}
		}
		if c.Issuer == "" && c.Contract == "" {
			return ErrInvalidField.Withf("CURRENCIES[%d] %s needs an issuer or a contract", n, c.Code)
		}
	}
	return nil
}

// Asset returns the CODE:ISSUER form of a classic currency.
func (c Currency) Asset() string {
	if c.Issuer == "" {
		return c.Code
	}
	return c.Code + ":" + c.Issuer
}

type cacheEntry struct {
	info      *Info
	fetchedAt time.Time
}

// Resolver fetches stellar.toml documents from home domains and caches them.
type Resolver struct {
	client   *http.Client
	scheme   string
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

func NewResolver(client *http.Client) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Resolver{
		client:   client,
		scheme:   "https",
		cacheTTL: defaultCacheTTL,
		cache:    make(map[string]cacheEntry),
	}
}

// AllowHTTP makes the resolver fetch over plain http, for local anchors.
func (r *Resolver) AllowHTTP() *Resolver {
	r.scheme = "http"
	return r
}

// Resolve returns the parsed stellar.toml of domain.
func (r *Resolver) Resolve(ctx context.Context, domain string) (*Info, error) {
	domain = strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(domain, "https://"), "http://"), "/")
	if domain == "" {
		return nil, ErrInvalidField.Withf("home domain is empty")
	}

	r.mu.RLock()
	entry, ok := r.cache[domain]
	r.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) < r.cacheTTL {
		return entry.info, nil
	}

	tomlURL := r.scheme + "://" + domain + WellKnownPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tomlURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building stellar.toml request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", tomlURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", tomlURL, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", tomlURL, err)
	}
	if len(body) > maxDocumentSize {
		return nil, fmt.Errorf("%s exceeds %d bytes", tomlURL, maxDocumentSize)
	}

	info, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tomlURL, err)
	}
	log.Debug().Str("domain", domain).Int("currencies", len(info.Currencies)).Msg("resolved stellar.toml")

	r.mu.Lock()
	r.cache[domain] = cacheEntry{info: info, fetchedAt: time.Now()}
	r.mu.Unlock()
	return info, nil
}
