package main

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"weighttracker/internal/client"
)

const (
	apiURLFlag       = "api-url"
	tokenFlag        = "token"
	tokenURLFlag     = "token-url"
	clientIDFlag     = "client-id"
	clientSecretFlag = "client-secret"
	usernameFlag     = "username"
	passwordFlag     = "password"
	scopesFlag       = "scopes"
	configFlag       = "config"
)

// cli carries the resolved settings shared by every subcommand.
type cli struct {
	v   *viper.Viper
	out io.Writer
}

func newRootCommand(out io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), out: out}

	root := &cobra.Command{
		Use:   "weightctl",
		Short: "Record and query weights against a weight tracker API",
		Long: `weightctl talks to a weight tracker API on behalf of one user.

Every flag can also be set through the environment as WEIGHTCTL_<FLAG>,
with dashes turned into underscores (e.g. WEIGHTCTL_API_URL), or in a
config file given with --config.

Credentials are resolved in order: --token, then the password grant
(--username/--password), then the client-credentials grant
(--client-id/--client-secret). Both grants need --token-url.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.loadConfig()
		},
	}

	pf := root.PersistentFlags()
	pf.String(apiURLFlag, "http://localhost:3000", "Base URL of the API")
	pf.String(tokenFlag, "", "Bearer token to send as is")
	pf.String(tokenURLFlag, "", "OAuth2 token endpoint")
	pf.String(clientIDFlag, "", "OAuth2 client id")
	pf.String(clientSecretFlag, "", "OAuth2 client secret")
	pf.String(usernameFlag, "", "User name for the password grant")
	pf.String(passwordFlag, "", "Password for the password grant")
	pf.StringSlice(scopesFlag, []string{"openid"}, "OAuth2 scopes to request")
	pf.String(configFlag, "", "Optional config file (yaml, json or toml)")

	c.v.SetEnvPrefix("WEIGHTCTL")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	// Binding only fails for a nil flag, which cannot happen here.
	_ = c.v.BindPFlags(pf)

	root.AddCommand(
		c.newHealthCommand(),
		c.newEchoCommand(),
		c.newWeightsCommand(),
		c.newGoalCommand(),
	)
	return root
}

func (c *cli) loadConfig() error {
	path := c.v.GetString(configFlag)
	if path == "" {
		return nil
	}
	c.v.SetConfigFile(path)
	return errors.Wrapf(c.v.ReadInConfig(), "read config %s", path)
}

func (c *cli) credentials() client.Credentials {
	return client.Credentials{
		Token:        c.v.GetString(tokenFlag),
		TokenURL:     c.v.GetString(tokenURLFlag),
		ClientID:     c.v.GetString(clientIDFlag),
		ClientSecret: c.v.GetString(clientSecretFlag),
		Username:     c.v.GetString(usernameFlag),
		Password:     c.v.GetString(passwordFlag),
		Scopes:       c.v.GetStringSlice(scopesFlag),
	}
}

// client builds an API client. Without any credentials the requests go out
// unauthenticated, so the server's own answer reaches the user.
func (c *cli) client(ctx context.Context) (*client.Client, error) {
	ts, err := client.TokenSource(ctx, c.credentials())
	if err != nil && !errors.Is(err, client.ErrNoCredentials) {
		return nil, err
	}
	return client.New(c.v.GetString(apiURLFlag), ts, nil)
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
