// Package auth verifies bearer tokens issued by the OIDC identity provider.
package auth

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"weighttracker/internal/domain"
)

// DefaultFetchTimeout bounds a single key-set download.
const DefaultFetchTimeout = 5 * time.Second

var bearerRe = regexp.MustCompile(`(?i)^Bearer\s+(.+)`)

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, error) {
	m := bearerRe.FindStringSubmatch(header)
	if m == nil {
		return "", domain.ErrMissingBearer
	}
	token := strings.TrimSpace(m[1])
	if token == "" {
		return "", domain.ErrMissingBearer
	}
	return token, nil
}

// Config describes the trusted issuer.
type Config struct {
	Issuer  string
	JWKSURL string
	// FetchTimeout defaults to DefaultFetchTimeout.
	FetchTimeout time.Duration
	// Algorithms defaults to RS256 and ES256.
	Algorithms []string

	// Now overrides the clock used for expiry checks.
	Now func() time.Time
}

// Verifier checks tokens against the remote key set and the issuer. The
// audience is not checked.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
	log      *zap.Logger
}

var _ domain.Authenticator = (*Verifier)(nil)

// NewVerifier builds a Verifier. Keys are fetched lazily on first use, cached,
// and refreshed when a token names an unknown key id; ctx scopes those fetches.
func NewVerifier(ctx context.Context, cfg Config, log *zap.Logger) *Verifier {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if len(cfg.Algorithms) == 0 {
		cfg.Algorithms = []string{oidc.RS256, oidc.ES256}
	}
	if log == nil {
		log = zap.NewNop()
	}

	client := &http.Client{Timeout: cfg.FetchTimeout}
	keys := oidc.NewRemoteKeySet(oidc.ClientContext(ctx, client), cfg.JWKSURL)

	return &Verifier{
		verifier: oidc.NewVerifier(cfg.Issuer, keys, &oidc.Config{
			SkipClientIDCheck:    true,
			SupportedSigningAlgs: cfg.Algorithms,
			Now:                  cfg.Now,
		}),
		log: log,
	}
}

// Authenticate verifies the bearer token carried by header.
func (v *Verifier) Authenticate(ctx context.Context, header string) (*domain.Identity, error) {
	raw, err := BearerToken(header)
	if err != nil {
		return nil, err
	}

	tok, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		v.log.Debug("token rejected", zap.Error(err))
		return nil, errors.Wrap(domain.ErrInvalidToken, err.Error())
	}
	if tok.Subject == "" {
		v.log.Debug("token rejected", zap.String("reason", "empty sub"))
		return nil, errors.Wrap(domain.ErrInvalidToken, "empty sub")
	}

	var claims map[string]any
	if err := tok.Claims(&claims); err != nil {
		return nil, errors.Wrap(domain.ErrInvalidToken, err.Error())
	}

	id := &domain.Identity{Subject: tok.Subject, Claims: claims}
	id.Username, _ = claims["preferred_username"].(string)
	id.Scope, _ = claims["scope"].(string)
	return id, nil
}
