package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/types"
)

func TestBootstrapSignupClosesAfterFirstAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.auth.BootstrapSignup(ctx, BootstrapSignupRequest{
		Email:    "admin@example.com",
		Password: "longenough",
		Role:     types.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("first bootstrap: %v", err)
	}
	if first.Role != types.RoleAdmin {
		t.Fatalf("role = %q, want admin", first.Role)
	}

	_, err = env.auth.BootstrapSignup(ctx, BootstrapSignupRequest{
		Email:    "second@example.com",
		Password: "longenough",
		Role:     types.RoleAdmin,
	})
	if !apierr.IsForbidden(err) {
		t.Fatalf("second bootstrap err = %v, want forbidden", err)
	}
}

func TestBootstrapSignupValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.BootstrapSignup(ctx, BootstrapSignupRequest{
		Email:    "admin@example.com",
		Password: "longenough",
		Role:     types.RoleStudent,
	})
	if apierr.StatusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("non-admin role status = %d, want 422", apierr.StatusOf(err))
	}

	_, err = env.auth.BootstrapSignup(ctx, BootstrapSignupRequest{
		Email:    "admin@example.com",
		Password: "short",
		Role:     types.RoleAdmin,
	})
	if apierr.StatusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("short password status = %d, want 422", apierr.StatusOf(err))
	}
}

func TestLoginErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "student@example.com", types.RoleStudent)

	if _, err := env.auth.Login(ctx, "student@example.com", "wrong"); apierr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d, want 401", apierr.StatusOf(err))
	}
	if _, err := env.auth.Login(ctx, "nobody@example.com", "password123"); apierr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("unknown email status = %d, want 401", apierr.StatusOf(err))
	}

	user.Status = types.StatusSuspended
	if err := env.userRepo.Update(ctx, nil, user); err != nil {
		t.Fatalf("suspend user: %v", err)
	}
	if _, err := env.auth.Login(ctx, "student@example.com", "password123"); apierr.StatusOf(err) != http.StatusForbidden {
		t.Fatalf("suspended status = %d, want 403", apierr.StatusOf(err))
	}
}

func TestAuthenticateRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "student@example.com", types.RoleStudent)

	pair, err := env.auth.Login(ctx, "student@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	got, err := env.auth.Authenticate(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("authenticated id = %q, want %q", got.ID, user.ID)
	}

	// a refresh token must not pass as an access token
	if _, err := env.auth.Authenticate(ctx, pair.RefreshToken); apierr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("refresh-as-access status = %d, want 401", apierr.StatusOf(err))
	}
	if _, err := env.auth.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("refresh: %v", err)
	}
}

func TestSetPasswordFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)

	provisioned, err := env.users.Provision(ctx, admin, ProvisionUserRequest{
		Email: "newbie@example.com",
		Name:  strp("Newbie"),
		Role:  types.RoleStudent,
	})
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if provisioned.PasswordSetupCompleted {
		t.Fatal("provisioned user should not have completed password setup")
	}
	if len(env.mail.Sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(env.mail.Sent))
	}
	link := env.mail.Sent[0].SetupLink
	idx := strings.Index(link, "token=")
	if idx < 0 {
		t.Fatalf("no token in setup link %q", link)
	}
	rawToken := link[idx+len("token="):]

	if err := env.auth.SetPassword(ctx, rawToken, "brandnewpass"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if _, err := env.auth.Login(ctx, "newbie@example.com", "brandnewpass"); err != nil {
		t.Fatalf("login after setup: %v", err)
	}

	// single use
	err = env.auth.SetPassword(ctx, rawToken, "anothernewpass")
	if apierr.StatusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("reused token status = %d, want 422", apierr.StatusOf(err))
	}
}

func TestSetPasswordBadToken(t *testing.T) {
	env := newTestEnv(t)
	err := env.auth.SetPassword(context.Background(), "nosuchtoken", "brandnewpass")
	if apierr.StatusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", apierr.StatusOf(err))
	}
}
