package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const oauthStateTTL = 5 * time.Minute

// oAuthUserInfo holds the standardized user information from a provider.
type oAuthUserInfo struct {
	ID    string
	Email string
	Name  string
}

// oAuthProvider abstracts a federated identity provider: building the consent
// URL, exchanging the authorization code, and fetching the profile.
type oAuthProvider interface {
	authCodeURL(state, verifier string) string
	exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error)
	userInfo(ctx context.Context, token *oauth2.Token) (*oAuthUserInfo, error)
}

func (s *service) newOAuthProvider(provider string) (oAuthProvider, error) {
	switch provider {
	case "google":
		return &googleProvider{
			cfg: &oauth2.Config{
				ClientID:     s.config.Google.ClientID,
				ClientSecret: s.config.Google.ClientSecret,
				RedirectURL:  s.config.Google.RedirectURL,
				Endpoint:     google.Endpoint,
				Scopes: []string{
					"https://www.googleapis.com/auth/userinfo.email",
					"https://www.googleapis.com/auth/userinfo.profile",
				},
			},
		}, nil
	default:
		return nil, ErrOAuthExchangeFailed.WithDetail(fmt.Sprintf("unsupported oauth provider: %s", provider))
	}
}

type googleProvider struct {
	cfg *oauth2.Config
}

func (g *googleProvider) authCodeURL(state, verifier string) string {
	return g.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)
}

func (g *googleProvider) exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	return g.cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
}

func (g *googleProvider) userInfo(ctx context.Context, token *oauth2.Token) (*oAuthUserInfo, error) {
	client := g.cfg.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to get user info from google: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user info response body: %w", err)
	}

	var info struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}

	return &oAuthUserInfo{ID: info.ID, Email: info.Email, Name: info.Name}, nil
}

// InitiateOAuthLogin generates the provider redirect URL, persisting the CSRF
// state and PKCE verifier for the callback to check.
func (s *service) InitiateOAuthLogin(ctx context.Context, provider string) (string, error) {
	p, err := s.oauthProviders(provider)
	if err != nil {
		return "", err
	}

	state, err := generateSecureToken(32)
	if err != nil {
		return "", ErrInternal.WithCause(fmt.Errorf("failed to generate oauth state: %w", err))
	}
	verifier := oauth2.GenerateVerifier()
	err = s.repo.InsertOAuthState(ctx, &OAuthState{
		State:     state,
		Provider:  provider,
		Verifier:  verifier,
		ExpiresAt: time.Now().Add(oauthStateTTL),
	})
	if err != nil {
		return "", ErrInternal.WithCause(fmt.Errorf("failed to store oauth state: %w", err))
	}

	return p.authCodeURL(state, verifier), nil
}

// HandleOAuthCallback verifies the state, exchanges the code, fetches the
// provider profile and finds or creates the local account. Repeated callbacks
// for the same external identity resolve to the same user. Provisioned
// accounts are verified immediately, default to the Patient role, and carry
// no phone or national id.
func (s *service) HandleOAuthCallback(ctx context.Context, provider, state, code string) (*AuthResult, error) {
	p, err := s.oauthProviders(provider)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.GetOAuthState(ctx, state)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrOAuthStateInvalid.WithCause(err)
		}
		s.logger.Error("oauth callback: state lookup failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrOAuthStateExpired
	}
	defer s.repo.DeleteOAuthState(ctx, state)

	oauthToken, err := p.exchange(ctx, code, stored.Verifier)
	if err != nil {
		return nil, ErrOAuthExchangeFailed.WithCause(fmt.Errorf("failed to exchange oauth code: %w", err))
	}

	info, err := p.userInfo(ctx, oauthToken)
	if err != nil {
		return nil, ErrOAuthExchangeFailed.WithCause(err)
	}
	if info.Email == "" {
		return nil, ErrOAuthEmailMissing
	}

	email := strings.ToLower(info.Email)
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("oauth callback: find user failed", "error", err)
			return nil, ErrInternal.WithCause(err)
		}

		// First login with this identity: provision a local account.
		u, err = s.provisionOAuthUser(ctx, info, email)
		if err != nil {
			return nil, err
		}
		s.logger.Info("new user provisioned via oauth", "user_id", u.ID, "provider", provider)
	} else if u.GoogleID == nil {
		// Existing password account logging in via Google for the first time:
		// link the federated identity and mark verified.
		googleID := info.ID
		u.GoogleID = &googleID
		u.Verified = true
		if updErr := s.repo.Update(ctx, u); updErr != nil {
			s.logger.Error("oauth callback: link identity failed", "error", updErr, "user_id", u.ID)
			return nil, ErrInternal.WithCause(updErr)
		}
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		s.logger.Error("oauth callback: issue token failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	s.logger.Info("user logged in via oauth", "provider", provider, "user_id", u.ID)
	return &AuthResult{User: sanitize(u), Token: token}, nil
}

// maxUsernameAttempts bounds the suffix retries when the email local part is
// already taken as a username.
const maxUsernameAttempts = 5

func (s *service) provisionOAuthUser(ctx context.Context, info *oAuthUserInfo, email string) (*User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}

	googleID := info.ID
	base := strings.SplitN(email, "@", 2)[0]
	newUser := &User{
		ID:       id.String(),
		FullName: info.Name,
		Username: base,
		Email:    email,
		GoogleID: &googleID,
		Role:     RolePatient,
		Verified: true,
	}

	// alice@gmail.com and alice@yahoo.com both want "alice"; on a username
	// collision retry with a random numeric suffix.
	for attempt := 0; ; attempt++ {
		createErr := s.repo.Create(ctx, newUser)
		if createErr == nil {
			return newUser, nil
		}
		if errors.Is(createErr, ErrUsernameExists) && attempt < maxUsernameAttempts {
			suffix, sErr := generateNumericCode(4)
			if sErr != nil {
				return nil, ErrInternal.WithCause(sErr)
			}
			newUser.Username = base + suffix
			continue
		}
		s.logger.Error("oauth callback: create user failed", "error", createErr)
		return nil, ErrInternal.WithCause(createErr)
	}
}
