package domain

import "context"

// Identity is the verified caller extracted from a bearer token.
type Identity struct {
	// Subject is the stable per-user identifier and the ownership key of every record.
	Subject  string
	Username string
	Scope    string
	// Claims holds the full verified claim set, including the fields above.
	Claims map[string]any
}

// Authenticator turns a raw Authorization header into a verified Identity.
// It fails with ErrMissingBearer or ErrInvalidToken.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*Identity, error)
}
