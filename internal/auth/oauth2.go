// Package auth acquires an initial bearer token for cloud-server instances
// fronted by an identity provider. For plain instances the run begins
// unauthenticated and the register/login stage establishes the token.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// OAuth2Config holds configuration for OAuth2 token acquisition.
type OAuth2Config struct {
	ClientID  string   `mapstructure:"client_id"`
	ClientSec string   `mapstructure:"client_secret"`
	Scopes    []string `mapstructure:"scopes"`
	AuthURL   string   `mapstructure:"auth_url"`
	TokenURL  string   `mapstructure:"token_url"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// DecodeOAuth2Config maps a raw config section onto OAuth2Config.
func DecodeOAuth2Config(raw map[string]interface{}) (OAuth2Config, error) {
	var cfg OAuth2Config
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return OAuth2Config{}, err
	}
	return cfg, nil
}

// AcquireOAuth2 obtains a bearer token using golang.org/x/oauth2. It supports
// the resource-owner password grant when username and password are provided,
// and the client-credentials grant when only client id/secret are set.
// token_url must be explicit; it is never derived.
func AcquireOAuth2(ctx context.Context, pc OAuth2Config) (string, error) {
	tokenURL := strings.TrimSpace(pc.TokenURL)
	if tokenURL == "" {
		return "", errors.New("oauth2: token_url is required")
	}
	clientID := strings.TrimSpace(pc.ClientID)
	clientSecret := strings.TrimSpace(pc.ClientSec)
	username := strings.TrimSpace(pc.Username)
	password := strings.TrimSpace(pc.Password)

	var tok *oauth2.Token
	var err error

	if username != "" && password != "" && clientID != "" {
		authURL := strings.TrimSpace(pc.AuthURL)
		if authURL == "" {
			return "", errors.New("oauth2: auth_url is required for password grant")
		}
		ocfg := &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
			Scopes: pc.Scopes,
		}
		tok, err = ocfg.PasswordCredentialsToken(ctx, username, password)
		if err != nil {
			return "", err
		}
	} else if clientID != "" && clientSecret != "" {
		cc := &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			Scopes:       pc.Scopes,
		}
		tok, err = cc.Token(ctx)
		if err != nil {
			return "", err
		}
	} else {
		return "", errors.New("oauth2: provide username/password with client_id, or client_id/client_secret")
	}

	if !tok.Valid() || strings.TrimSpace(tok.AccessToken) == "" {
		return "", errors.New("oauth2: received invalid token")
	}
	return strings.TrimSpace(tok.AccessToken), nil
}
