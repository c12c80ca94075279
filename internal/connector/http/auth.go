package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// =============================================================================
// TOKEN SOURCES
// =============================================================================

// Token is a bearer credential minted by a TokenSource.
type Token struct {
	AccessToken  string
	RefreshToken string
}

// TokenSource mints and refreshes bearer tokens for one platform session.
type TokenSource interface {
	// Authenticate performs the full credential exchange.
	Authenticate(ctx context.Context) (*Token, error)

	// Refresh obtains a replacement token after the current one was
	// rejected. Sources without a refresh flow repeat the full exchange.
	Refresh(ctx context.Context) (*Token, error)
}

// =============================================================================
// CLIENT-CREDENTIALS SOURCE (mutual TLS)
// =============================================================================

// ClientCredentialsSource exchanges a client id/secret pair plus a client TLS
// certificate for a bearer token. There is no refresh state; Refresh repeats
// the exchange.
type ClientCredentialsSource struct {
	conf      *clientcredentials.Config
	tokenURL  string
	transport *http.Transport
}

// NewClientCredentialsSource builds a source from credentials and a client
// certificate/key pair on disk.
func NewClientCredentialsSource(tokenURL, clientID, clientSecret, certFile, keyFile string) (*ClientCredentialsSource, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load client certificate: %w", err)
	}

	return &ClientCredentialsSource{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
		},
		tokenURL: tokenURL,
		transport: &http.Transport{
			TLSClientConfig: &tls.Config{Certificates: []tls.Certificate{cert}},
		},
	}, nil
}

// Authenticate performs the client-credentials exchange over mutual TLS.
func (s *ClientCredentialsSource) Authenticate(ctx context.Context) (*Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{
		Transport: s.transport,
		Timeout:   30 * time.Second,
	})

	tok, err := s.conf.Token(ctx)
	if err != nil {
		if rerr, ok := err.(*oauth2.RetrieveError); ok {
			return nil, &AuthError{
				Endpoint:   s.tokenURL,
				StatusCode: rerr.Response.StatusCode,
				Body:       strings.TrimSpace(string(rerr.Body)),
			}
		}
		return nil, &AuthError{Endpoint: s.tokenURL, Body: err.Error()}
	}

	return &Token{AccessToken: tok.AccessToken}, nil
}

// Refresh repeats the full exchange; the platform models no refresh grant for
// client credentials.
func (s *ClientCredentialsSource) Refresh(ctx context.Context) (*Token, error) {
	return s.Authenticate(ctx)
}

// Transport returns the mTLS transport so the API client can present the same
// client certificate on resource calls.
func (s *ClientCredentialsSource) Transport() http.RoundTripper {
	return s.transport
}

// =============================================================================
// PASSWORD-GRANT SOURCE (refresh-token rotation)
// =============================================================================

// PasswordGrantConfig configures a PasswordGrantSource.
type PasswordGrantConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string

	// AuthChain selects the platform's authentication chain
	// (e.g. "OAuthLdapService").
	AuthChain string

	// Headers are sent with every token request (the platform requires its
	// application key header on the token endpoint too).
	Headers map[string]string

	// Transport allows injecting a stub transport in tests.
	Transport http.RoundTripper
}

// PasswordGrantSource exchanges username/password for an access and refresh
// token. After the first exchange it derives a refresh form with the
// username/password removed, so silent re-authentication never re-sends the
// password.
type PasswordGrantSource struct {
	config     PasswordGrantConfig
	httpClient *http.Client

	refreshForm url.Values
}

// NewPasswordGrantSource builds a source for the password grant flow.
func NewPasswordGrantSource(config PasswordGrantConfig) *PasswordGrantSource {
	return &PasswordGrantSource{
		config: config,
		httpClient: &http.Client{
			Transport: config.Transport,
			Timeout:   30 * time.Second,
		},
	}
}

// Authenticate performs the password grant and captures the refresh form.
func (s *PasswordGrantSource) Authenticate(ctx context.Context) (*Token, error) {
	form := url.Values{}
	form.Set("client_id", s.config.ClientID)
	form.Set("client_secret", s.config.ClientSecret)
	form.Set("auth_chain", s.config.AuthChain)
	form.Set("grant_type", "password")
	form.Set("username", s.config.Username)
	form.Set("password", s.config.Password)

	tok, err := s.exchange(ctx, form)
	if err != nil {
		return nil, err
	}

	// Refresh form is the login form minus the user credentials, with the
	// grant switched to refresh_token.
	refresh := url.Values{}
	refresh.Set("client_id", s.config.ClientID)
	refresh.Set("client_secret", s.config.ClientSecret)
	refresh.Set("auth_chain", s.config.AuthChain)
	refresh.Set("grant_type", "refresh_token")
	refresh.Set("refresh_token", tok.RefreshToken)
	s.refreshForm = refresh

	return tok, nil
}

// Refresh exchanges the stored refresh token for a new access token. If the
// server rotates the refresh token, the stored form is updated.
func (s *PasswordGrantSource) Refresh(ctx context.Context) (*Token, error) {
	if s.refreshForm == nil {
		return s.Authenticate(ctx)
	}

	tok, err := s.exchange(ctx, s.refreshForm)
	if err != nil {
		return nil, err
	}
	if tok.RefreshToken != "" {
		s.refreshForm.Set("refresh_token", tok.RefreshToken)
	}
	return tok, nil
}

func (s *PasswordGrantSource) exchange(ctx context.Context, form url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range s.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &AuthError{Endpoint: s.config.TokenURL, Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &AuthError{
			Endpoint:   s.config.TokenURL,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return nil, &AuthError{
			Endpoint:   s.config.TokenURL,
			StatusCode: resp.StatusCode,
			Body:       "token response missing access_token",
		}
	}

	return &Token{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
	}, nil
}
