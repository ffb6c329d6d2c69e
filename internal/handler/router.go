package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/middleware"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/sep10"
	"github.com/stellar-txkit/internal/sep7"
	"github.com/stellar-txkit/internal/signing"
)

const metricsNamespace = "txkit"

// RouterOptions selects the routes the tools server exposes. Nil
// collaborators leave their routes out.
type RouterOptions struct {
	Version string
	Network network.Network

	// Signer enables POST /transactions/sign, guarded by APIToken when set.
	Signer      *signing.Signer
	APIToken    string
	AuthLimiter *middleware.AuthAttemptLimiter

	// WebAuth enables POST /auth/challenge and POST /auth/verify.
	WebAuth *sep10.Server
	// URIKey and HomeDomain enable POST /uri/sign.
	URIKey     *keypair.Full
	HomeDomain string
	TOML       sep7.TOMLResolver

	RateLimiter *middleware.RateLimiter
	CORSOrigins []string
	Registry    *prometheus.Registry
}

func NewRouter(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	var metrics *middleware.Metrics
	if opts.Registry != nil {
		metrics = middleware.NewMetrics(metricsNamespace, opts.Registry)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Observe(metrics))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader, "X-RateLimit-Remaining"},
			MaxAge:         300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		RespondError(w, http.StatusNotFound, "not_found", "No such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		RespondError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	signingKey := ""
	if opts.Signer != nil {
		signingKey = opts.Signer.PublicKey()
	}
	webAuthDomain := ""
	if opts.WebAuth != nil {
		webAuthDomain = opts.HomeDomain
	}

	r.Method(http.MethodGet, "/health", NewHealthHandler(opts.Version, opts.Network.Passphrase()))
	if opts.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimiter))
		r.Use(middleware.RequireJSON)

		r.Method(http.MethodGet, "/info", NewInfoHandler(opts.Network, signingKey, webAuthDomain))
		if opts.RateLimiter != nil {
			r.Method(http.MethodGet, "/usage", NewUsageHandler(opts.RateLimiter))
		}

		r.Method(http.MethodPost, "/txrep/encode", TxRepEncodeHandler{})
		r.Method(http.MethodPost, "/txrep/decode", TxRepDecodeHandler{})
		r.Method(http.MethodPost, "/strkey/decode", StrKeyDecodeHandler{})
		r.Method(http.MethodPost, "/transactions/inspect", NewInspectHandler(signing.NewInspector(opts.Network)))
		if opts.Signer != nil {
			r.With(middleware.BearerToken(opts.APIToken, opts.AuthLimiter)).
				Method(http.MethodPost, "/transactions/sign", NewSignHandler(opts.Signer, opts.Network.Passphrase()))
		}

		r.Method(http.MethodPost, "/uri/parse", NewURIParseHandler(opts.TOML))
		if opts.URIKey != nil && opts.HomeDomain != "" {
			r.With(middleware.BearerToken(opts.APIToken, opts.AuthLimiter)).
				Method(http.MethodPost, "/uri/sign", NewURISignHandler(opts.URIKey, opts.HomeDomain))
		}

		if opts.WebAuth != nil {
			r.Method(http.MethodPost, "/auth/challenge", NewChallengeHandler(opts.WebAuth, opts.Network.Passphrase()))
			r.Method(http.MethodPost, "/auth/verify", NewVerifyHandler(opts.WebAuth))
		}
	})
	return r
}
