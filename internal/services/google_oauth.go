package services

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleUser is the identity returned by the provider after a successful
// handshake.
type GoogleUser struct {
	Email string
	Name  string
	Sub   string
}

// IdentityProvider abstracts the OAuth handshake so handlers can be tested
// without Google.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleUser, error)
}

// GoogleAuthenticator implements IdentityProvider with Google's OAuth 2.0
// authorization-code flow (scopes email, profile).
type GoogleAuthenticator struct {
	cfg *oauth2.Config
}

func NewGoogleAuthenticator(clientID, clientSecret, callbackURL string) *GoogleAuthenticator {
	return &GoogleAuthenticator{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (g *GoogleAuthenticator) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

// Exchange trades the authorization code for the authenticated Google user's
// identity claims.
func (g *GoogleAuthenticator) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(g.cfg.TokenSource(ctx, tok)))
	if err != nil {
		return nil, err
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return &GoogleUser{
		Email: info.Email,
		Name:  info.Name,
		Sub:   info.Id,
	}, nil
}
