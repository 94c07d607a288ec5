package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// ErrNoVerifiedEmail is returned when the GitHub account has no verified
// primary email, which the callback surfaces as a sign-in page error.
var ErrNoVerifiedEmail = errors.New("Email not verified. Please verify your email on GitHub and try again.")

// GitHubUser is the portion of the GitHub /user response we unmarshal.
type GitHubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// GitHubAccount is the result of a completed code exchange: the profile
// plus the verified primary email address.
type GitHubAccount struct {
	User         GitHubUser
	PrimaryEmail string
}

// GitHubProvider wraps golang.org/x/oauth2 for the GitHub authorization
// code flow. The code-for-token exchange happens server to server; the
// access token never reaches the browser.
type GitHubProvider struct {
	config *oauth2.Config
}

// NewGitHubProvider creates a provider for a registered GitHub OAuth app.
// callbackURL must match the app's configured authorization callback URL.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

// AuthURL returns the GitHub authorization URL carrying the CSRF state value.
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the GitHub profile and the
// verified primary email. Accounts without one fail with ErrNoVerifiedEmail.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*GitHubAccount, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange OAuth code: %w", err)
	}

	client := p.config.Client(ctx, token)

	var user GitHubUser
	if err := getJSON(client, "https://api.github.com/user", &user); err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("github returned an invalid user")
	}

	var emails []githubEmail
	if err := getJSON(client, "https://api.github.com/user/emails", &emails); err != nil {
		return nil, err
	}

	for _, email := range emails {
		if email.Primary && email.Verified {
			return &GitHubAccount{User: user, PrimaryEmail: email.Email}, nil
		}
	}
	return nil, ErrNoVerifiedEmail
}

func getJSON(client *http.Client, url string, out interface{}) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("call %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", url, err)
	}
	return nil
}
