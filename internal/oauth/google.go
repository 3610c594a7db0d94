package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"blognest/internal/model"
)

// googleUser mirrors the userinfo endpoint response.
type googleUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Name       string `json:"name"`
	Picture    string `json:"picture"`
}

// GoogleProvider wraps golang.org/x/oauth2 for the Google authorization-code
// flow.
type GoogleProvider struct {
	config *oauth2.Config
}

func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *GoogleProvider) Name() string {
	return model.ProviderGoogle
}

func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for an access token and fetches
// the user's profile from the userinfo endpoint.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange google code: %w", err)
	}

	client := p.config.Client(ctx, token)

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var gUser googleUser
	if err := json.NewDecoder(resp.Body).Decode(&gUser); err != nil {
		return nil, fmt.Errorf("decode google userinfo: %w", err)
	}
	if gUser.ID == "" {
		return nil, fmt.Errorf("google returned an invalid user")
	}

	firstname, lastname := gUser.GivenName, gUser.FamilyName
	if firstname == "" {
		firstname, lastname = splitName(gUser.Name)
	}

	// Google always supplies an email; its local part doubles as the
	// username guess.
	username := gUser.Email
	if idx := strings.Index(username, "@"); idx != -1 {
		username = username[:idx]
	}

	return &Profile{
		Provider:   model.ProviderGoogle,
		ProviderID: gUser.ID,
		Email:      gUser.Email,
		Firstname:  firstname,
		Lastname:   lastname,
		Username:   username,
		PhotoURL:   gUser.Picture,
	}, nil
}
