package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weighttracker/internal/auth"
	"weighttracker/internal/domain"
)

const issuer = "https://idp.example.test/realms/weights"

type idp struct {
	key     *rsa.PrivateKey
	kid     string
	srv     *httptest.Server
	fetches atomic.Int32
}

func newIDP(t *testing.T) *idp {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	p := &idp{key: key, kid: "primary"}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.fetches.Add(1)
		set := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{
			Key:       &key.PublicKey,
			KeyID:     p.kid,
			Algorithm: string(jose.RS256),
			Use:       "sig",
		}}}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(set)
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *idp) verifier() *auth.Verifier {
	return auth.NewVerifier(context.Background(), auth.Config{Issuer: issuer, JWKSURL: p.srv.URL}, nil)
}

func (p *idp) sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	return signWith(t, p.key, p.kid, claims)
}

func signWith(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	s, err := tok.SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":                issuer,
		"sub":                "user-123",
		"aud":                "account",
		"exp":                time.Now().Add(time.Hour).Unix(),
		"iat":                time.Now().Unix(),
		"preferred_username": "alice",
		"scope":              "openid profile",
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		err    error
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"bearer abc", "abc", nil},
		{"BEARER   abc ", "abc", nil},
		{"", "", domain.ErrMissingBearer},
		{"Bearer", "", domain.ErrMissingBearer},
		{"Bearer   ", "", domain.ErrMissingBearer},
		{"Bogus xyz", "", domain.ErrMissingBearer},
		{"Basic dXNlcjpwYXNz", "", domain.ErrMissingBearer},
	}
	for _, tt := range tests {
		got, err := auth.BearerToken(tt.header)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, "header %q", tt.header)
			continue
		}
		require.NoError(t, err, "header %q", tt.header)
		assert.Equal(t, tt.want, got)
	}
}

func TestAuthenticate_Valid(t *testing.T) {
	p := newIDP(t)
	v := p.verifier()

	id, err := v.Authenticate(context.Background(), "Bearer "+p.sign(t, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-123", id.Subject)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, "openid profile", id.Scope)
	assert.Equal(t, issuer, id.Claims["iss"])
	assert.Equal(t, "account", id.Claims["aud"])
}

func TestAuthenticate_AudienceNotChecked(t *testing.T) {
	p := newIDP(t)
	claims := validClaims()
	claims["aud"] = []string{"some-other-client"}

	id, err := p.verifier().Authenticate(context.Background(), "Bearer "+p.sign(t, claims))
	require.NoError(t, err)
	assert.Equal(t, "user-123", id.Subject)
}

func TestAuthenticate_OptionalClaimsAbsent(t *testing.T) {
	p := newIDP(t)
	claims := validClaims()
	delete(claims, "preferred_username")
	delete(claims, "scope")

	id, err := p.verifier().Authenticate(context.Background(), "Bearer "+p.sign(t, claims))
	require.NoError(t, err)
	assert.Empty(t, id.Username)
	assert.Empty(t, id.Scope)
}

func TestAuthenticate_Rejected(t *testing.T) {
	p := newIDP(t)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	wrongIssuer := validClaims()
	wrongIssuer["iss"] = "https://evil.example.test"

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	noSubject := validClaims()
	delete(noSubject, "sub")

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", domain.ErrMissingBearer},
		{"wrong scheme", "Bogus xyz", domain.ErrMissingBearer},
		{"garbage token", "Bearer not-a-jwt", domain.ErrInvalidToken},
		{"wrong issuer", "Bearer " + p.sign(t, wrongIssuer), domain.ErrInvalidToken},
		{"expired", "Bearer " + p.sign(t, expired), domain.ErrInvalidToken},
		{"empty subject", "Bearer " + p.sign(t, noSubject), domain.ErrInvalidToken},
		{"unknown kid", "Bearer " + signWith(t, p.key, "rotated-away", validClaims()), domain.ErrInvalidToken},
		{"forged signature", "Bearer " + signWith(t, other, p.kid, validClaims()), domain.ErrInvalidToken},
	}

	v := p.verifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := v.Authenticate(context.Background(), tt.header)
			assert.Nil(t, id)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestAuthenticate_KeysAreCached(t *testing.T) {
	p := newIDP(t)
	v := p.verifier()

	for i := 0; i < 3; i++ {
		_, err := v.Authenticate(context.Background(), "Bearer "+p.sign(t, validClaims()))
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), p.fetches.Load())
}

func TestAuthenticate_FetchTimeout(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	v := auth.NewVerifier(context.Background(), auth.Config{
		Issuer:       issuer,
		JWKSURL:      slow.URL,
		FetchTimeout: 50 * time.Millisecond,
	}, nil)

	start := time.Now()
	_, err = v.Authenticate(context.Background(), "Bearer "+signWith(t, key, "primary", validClaims()))
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAuthenticate_InjectedClock(t *testing.T) {
	p := newIDP(t)
	claims := validClaims()
	claims["exp"] = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	raw := "Bearer " + p.sign(t, claims)

	later := auth.NewVerifier(context.Background(), auth.Config{
		Issuer:  issuer,
		JWKSURL: p.srv.URL,
		Now:     func() time.Time { return time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC) },
	}, nil)
	_, err := later.Authenticate(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
