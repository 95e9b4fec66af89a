package client

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrNoCredentials is returned when no way to obtain a token is configured.
var ErrNoCredentials = errors.New("no credentials: set a token, a username/password or a client secret")

// Credentials selects how tokens are obtained. The first applicable mode
// wins: a fixed Token, the password grant when Username is set, then the
// client-credentials grant when ClientSecret is set.
type Credentials struct {
	Token string

	TokenURL     string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	Scopes       []string
}

// TokenSource builds a refreshing token source for creds. ctx carries the
// HTTP client used against the token endpoint (see oauth2.HTTPClient).
func TokenSource(ctx context.Context, creds Credentials) (oauth2.TokenSource, error) {
	if creds.Token != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token, TokenType: "Bearer"}), nil
	}
	if creds.TokenURL == "" {
		if creds.Username != "" || creds.ClientSecret != "" {
			return nil, errors.New("token url is required for grant-based credentials")
		}
		return nil, ErrNoCredentials
	}

	switch {
	case creds.Username != "":
		conf := &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: creds.TokenURL, AuthStyle: oauth2.AuthStyleInParams},
			Scopes:       creds.Scopes,
		}
		tok, err := conf.PasswordCredentialsToken(ctx, creds.Username, creds.Password)
		if err != nil {
			return nil, errors.Wrap(err, "password grant")
		}
		return conf.TokenSource(ctx, tok), nil

	case creds.ClientSecret != "":
		conf := &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     creds.TokenURL,
			Scopes:       creds.Scopes,
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		return conf.TokenSource(ctx), nil
	}
	return nil, ErrNoCredentials
}
