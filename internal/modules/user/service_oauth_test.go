package user

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestInitiateOAuthLoginPersistsStateAndVerifier(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	redirect, err := env.svc.InitiateOAuthLogin(ctx, "google")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	parsed, err := url.Parse(redirect)
	if err != nil {
		t.Fatalf("parse redirect url: %v", err)
	}
	state := parsed.Query().Get("state")
	if state == "" {
		t.Fatal("redirect url carries no state parameter")
	}
	if parsed.Query().Get("code_challenge") == "" {
		t.Error("redirect url carries no PKCE challenge")
	}

	stored, err := env.repo.GetOAuthState(ctx, state)
	if err != nil {
		t.Fatalf("stored state lookup: %v", err)
	}
	if stored.Verifier == "" {
		t.Error("stored state has no verifier")
	}
	if stored.Provider != "google" {
		t.Errorf("stored provider = %q, want google", stored.Provider)
	}
	if !stored.ExpiresAt.After(time.Now()) {
		t.Error("stored state already expired")
	}
}

func TestInitiateOAuthLoginRejectsUnknownProvider(t *testing.T) {
	env := newTestEnv(t, false)

	if _, err := env.svc.InitiateOAuthLogin(context.Background(), "facebook"); !errors.Is(err, ErrOAuthExchangeFailed) {
		t.Errorf("got %v, want ErrOAuthExchangeFailed", err)
	}
}

func TestOAuthCallbackRejectsUnknownState(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.svc.HandleOAuthCallback(context.Background(), "google", "never-issued", "some-code")
	if !errors.Is(err, ErrOAuthStateInvalid) {
		t.Errorf("got %v, want ErrOAuthStateInvalid", err)
	}
}

func TestOAuthCallbackRejectsExpiredState(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	err := env.repo.InsertOAuthState(ctx, &OAuthState{
		State:     "stale-state",
		Provider:  "google",
		Verifier:  "verifier",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("insert state: %v", err)
	}

	_, err = env.svc.HandleOAuthCallback(ctx, "google", "stale-state", "some-code")
	if !errors.Is(err, ErrOAuthStateExpired) {
		t.Errorf("got %v, want ErrOAuthStateExpired", err)
	}
}

// fakeOAuthProvider drives the callback flow without touching the network.
type fakeOAuthProvider struct {
	info *oAuthUserInfo
}

func (f *fakeOAuthProvider) authCodeURL(state, _ string) string {
	return "https://provider.example/auth?state=" + state
}

func (f *fakeOAuthProvider) exchange(context.Context, string, string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "provider-access-token"}, nil
}

func (f *fakeOAuthProvider) userInfo(context.Context, *oauth2.Token) (*oAuthUserInfo, error) {
	return f.info, nil
}

func installOAuthProvider(t *testing.T, env *testEnv, p oAuthProvider) {
	t.Helper()
	env.svc.(*service).oauthProviders = func(string) (oAuthProvider, error) { return p, nil }
}

func seedOAuthState(t *testing.T, env *testEnv, state string) {
	t.Helper()
	err := env.repo.InsertOAuthState(context.Background(), &OAuthState{
		State:     state,
		Provider:  "google",
		Verifier:  "verifier",
		ExpiresAt: time.Now().Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("insert state: %v", err)
	}
}

func TestOAuthCallbackProvisionsVerifiedPatient(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	installOAuthProvider(t, env, &fakeOAuthProvider{
		info: &oAuthUserInfo{ID: "google-1", Email: "Ada@Example.com", Name: "Ada Okafor"},
	})
	seedOAuthState(t, env, "state-1")

	res, err := env.svc.HandleOAuthCallback(ctx, "google", "state-1", "code-1")
	if err != nil {
		t.Fatalf("callback: %v", err)
	}
	if res.Token == "" {
		t.Error("expected a token")
	}
	u := res.User
	if u.Email != "ada@example.com" {
		t.Errorf("Email = %q, want lowercased", u.Email)
	}
	if u.Role != RolePatient || !u.Verified {
		t.Errorf("Role = %v Verified = %v, want verified Patient", u.Role, u.Verified)
	}
	if u.GoogleID == nil || *u.GoogleID != "google-1" {
		t.Errorf("GoogleID = %v, want google-1", u.GoogleID)
	}
	if u.Phone != nil || u.NationalID != nil {
		t.Errorf("Phone = %v NationalID = %v, want both absent", u.Phone, u.NationalID)
	}

	// The consumed state cannot be replayed.
	if _, err := env.svc.HandleOAuthCallback(ctx, "google", "state-1", "code-1"); !errors.Is(err, ErrOAuthStateInvalid) {
		t.Errorf("replayed state: got %v, want ErrOAuthStateInvalid", err)
	}
}

func TestOAuthCallbackIsIdempotent(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	installOAuthProvider(t, env, &fakeOAuthProvider{
		info: &oAuthUserInfo{ID: "google-1", Email: "ada@example.com", Name: "Ada Okafor"},
	})

	seedOAuthState(t, env, "state-1")
	first, err := env.svc.HandleOAuthCallback(ctx, "google", "state-1", "code-1")
	if err != nil {
		t.Fatalf("first callback: %v", err)
	}

	seedOAuthState(t, env, "state-2")
	second, err := env.svc.HandleOAuthCallback(ctx, "google", "state-2", "code-2")
	if err != nil {
		t.Fatalf("second callback: %v", err)
	}

	if first.User.ID != second.User.ID {
		t.Errorf("user ids differ: %q vs %q", first.User.ID, second.User.ID)
	}
	if got := len(env.repo.users); got != 1 {
		t.Errorf("user count = %d, want 1", got)
	}
}

func TestOAuthCallbackLinksExistingPasswordAccount(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	reg, err := env.svc.Register(ctx, registerInput("ada@example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	installOAuthProvider(t, env, &fakeOAuthProvider{
		info: &oAuthUserInfo{ID: "google-1", Email: "ada@example.com", Name: "Ada Okafor"},
	})
	seedOAuthState(t, env, "state-1")

	res, err := env.svc.HandleOAuthCallback(ctx, "google", "state-1", "code-1")
	if err != nil {
		t.Fatalf("callback: %v", err)
	}
	if res.User.ID != reg.User.ID {
		t.Errorf("linked to %q, want existing account %q", res.User.ID, reg.User.ID)
	}
	if res.User.GoogleID == nil || *res.User.GoogleID != "google-1" {
		t.Errorf("GoogleID = %v, want google-1", res.User.GoogleID)
	}
	if !res.User.Verified {
		t.Error("linking should mark the account verified")
	}

	// The password path still works after linking.
	if _, err := env.svc.Login(ctx, "ada@example.com", "password-123"); err != nil {
		t.Errorf("password login after linking: %v", err)
	}
}

func TestOAuthProvisioningAvoidsUsernameCollisions(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	provider := &fakeOAuthProvider{
		info: &oAuthUserInfo{ID: "google-1", Email: "alice@gmail.com", Name: "Alice One"},
	}
	installOAuthProvider(t, env, provider)

	seedOAuthState(t, env, "state-1")
	first, err := env.svc.HandleOAuthCallback(ctx, "google", "state-1", "code-1")
	if err != nil {
		t.Fatalf("first callback: %v", err)
	}

	// A different identity whose email local part maps to the same username.
	provider.info = &oAuthUserInfo{ID: "google-2", Email: "alice@yahoo.com", Name: "Alice Two"}
	seedOAuthState(t, env, "state-2")
	second, err := env.svc.HandleOAuthCallback(ctx, "google", "state-2", "code-2")
	if err != nil {
		t.Fatalf("second callback: %v", err)
	}

	if first.User.ID == second.User.ID {
		t.Fatal("distinct identities resolved to the same account")
	}
	if first.User.Username == second.User.Username {
		t.Errorf("usernames collide: %q", first.User.Username)
	}
}

func TestOAuthCallbackRejectsMissingEmail(t *testing.T) {
	env := newTestEnv(t, false)
	installOAuthProvider(t, env, &fakeOAuthProvider{
		info: &oAuthUserInfo{ID: "google-1", Name: "No Email"},
	})
	seedOAuthState(t, env, "state-1")

	_, err := env.svc.HandleOAuthCallback(context.Background(), "google", "state-1", "code-1")
	if !errors.Is(err, ErrOAuthEmailMissing) {
		t.Errorf("got %v, want ErrOAuthEmailMissing", err)
	}
}
