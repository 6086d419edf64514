package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/KlausJCB/MaterialPassportTool/internal/domain"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/dbctx"
	"github.com/KlausJCB/MaterialPassportTool/internal/requestdata"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*types.User{}}
}

func (f *fakeUserRepo) Create(_ dbctx.Context, users []*types.User) ([]*types.User, error) {
	for _, u := range users {
		cp := *u
		f.users[u.ID] = &cp
	}
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmails(_ dbctx.Context, emails []string) ([]*types.User, error) {
	var out []*types.User
	for _, email := range emails {
		for _, u := range f.users {
			if u.Email == email {
				cp := *u
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

type fakeUserTokenRepo struct {
	tokens map[uuid.UUID]*types.UserToken
}

func newFakeUserTokenRepo() *fakeUserTokenRepo {
	return &fakeUserTokenRepo{tokens: map[uuid.UUID]*types.UserToken{}}
}

func (f *fakeUserTokenRepo) Create(_ dbctx.Context, tokens []*types.UserToken) ([]*types.UserToken, error) {
	for _, tok := range tokens {
		cp := *tok
		f.tokens[tok.ID] = &cp
	}
	return tokens, nil
}

func (f *fakeUserTokenRepo) GetByAccessTokens(_ dbctx.Context, accessTokens []string) ([]*types.UserToken, error) {
	var out []*types.UserToken
	for _, want := range accessTokens {
		for _, tok := range f.tokens {
			if tok.AccessToken == want {
				cp := *tok
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (f *fakeUserTokenRepo) GetByRefreshTokens(_ dbctx.Context, refreshTokens []string) ([]*types.UserToken, error) {
	var out []*types.UserToken
	for _, want := range refreshTokens {
		for _, tok := range f.tokens {
			if tok.RefreshToken == want {
				cp := *tok
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (f *fakeUserTokenRepo) GetByUserIDs(_ dbctx.Context, userIDs []uuid.UUID) ([]*types.UserToken, error) {
	var out []*types.UserToken
	for _, want := range userIDs {
		for _, tok := range f.tokens {
			if tok.UserID == want {
				cp := *tok
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (f *fakeUserTokenRepo) FullDeleteByIDs(_ dbctx.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(f.tokens, id)
	}
	return nil
}

func (f *fakeUserTokenRepo) FullDeleteByUserIDs(_ dbctx.Context, userIDs []uuid.UUID) error {
	for _, want := range userIDs {
		for id, tok := range f.tokens {
			if tok.UserID == want {
				delete(f.tokens, id)
			}
		}
	}
	return nil
}

func newAuthTestService(t *testing.T) (AuthService, *fakeUserRepo, *fakeUserTokenRepo) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := newFakeUserTokenRepo()
	svc := NewAuthService(nil, testLogger(t), users, tokens, "test-secret", time.Hour, 24*time.Hour)
	return svc, users, tokens
}

func registerTestUser(t *testing.T, svc AuthService, email, role string) *types.User {
	t.Helper()
	u := &types.User{Email: email, Password: "correct horse battery", Role: role}
	if err := svc.RegisterUser(context.Background(), u); err != nil {
		t.Fatalf("register: %v", err)
	}
	return u
}

func TestRegisterUserValidation(t *testing.T) {
	svc, _, _ := newAuthTestService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		user     types.User
		wantCode string
	}{
		{name: "bad email", user: types.User{Email: "nope", Password: "longenough"}, wantCode: "invalid_email"},
		{name: "short password", user: types.User{Email: "a@b.de", Password: "short"}, wantCode: "weak_password"},
		{name: "unknown role", user: types.User{Email: "a@b.de", Password: "longenough", Role: "admin"}, wantCode: "invalid_role"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			u := tc.user
			err := svc.RegisterUser(ctx, &u)
			assertStatus(t, err, http.StatusBadRequest, tc.wantCode)
		})
	}
}

func TestRegisterUserDefaultsToViewer(t *testing.T) {
	svc, users, _ := newAuthTestService(t)
	u := registerTestUser(t, svc, "viewer@example.com", "")

	stored := users.users[u.ID]
	if stored == nil {
		t.Fatalf("user not persisted")
	}
	if stored.Role != types.RoleViewer {
		t.Fatalf("default role: got %q want viewer", stored.Role)
	}
	if stored.Password == "correct horse battery" {
		t.Fatalf("password stored in plaintext")
	}
}

func TestRegisterUserRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthTestService(t)
	registerTestUser(t, svc, "taken@example.com", types.RoleMember)

	dup := &types.User{Email: "Taken@Example.com", Password: "longenough"}
	err := svc.RegisterUser(context.Background(), dup)
	assertStatus(t, err, http.StatusBadRequest, "email_taken")
}

func TestLoginAndTokenContextRoundtrip(t *testing.T) {
	svc, _, _ := newAuthTestService(t)
	u := registerTestUser(t, svc, "member@example.com", types.RoleMember)

	access, refresh, err := svc.LoginUser(context.Background(), "member@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("empty tokens")
	}

	ctx, err := svc.SetContextFromToken(context.Background(), access)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID != u.ID || rd.Role != types.RoleMember {
		t.Fatalf("request data: %+v", rd)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _ := newAuthTestService(t)
	registerTestUser(t, svc, "member@example.com", types.RoleMember)

	_, _, err := svc.LoginUser(context.Background(), "member@example.com", "wrong")
	assertStatus(t, err, http.StatusUnauthorized, "invalid_credentials")
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newAuthTestService(t)
	registerTestUser(t, svc, "member@example.com", types.RoleMember)

	_, refresh, err := svc.LoginUser(context.Background(), "member@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access2, refresh2, err := svc.RefreshUser(context.Background(), refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access2 == "" || refresh2 == "" || refresh2 == refresh {
		t.Fatalf("refresh did not rotate tokens")
	}

	// The old refresh token is spent.
	_, _, err = svc.RefreshUser(context.Background(), refresh)
	assertStatus(t, err, http.StatusUnauthorized, "invalid_refresh_token")
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthTestService(t)
	_, err := svc.SetContextFromToken(context.Background(), "not.a.jwt")
	assertStatus(t, err, http.StatusUnauthorized, "invalid_token")
}
