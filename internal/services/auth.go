package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/KlausJCB/MaterialPassportTool/internal/data/repos"
	types "github.com/KlausJCB/MaterialPassportTool/internal/domain"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/apierr"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/dbctx"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
	"github.com/KlausJCB/MaterialPassportTool/internal/requestdata"
)

type AuthService interface {
	RegisterUser(ctx context.Context, u *types.User) error
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context, refreshToken string) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           baseLog.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) GetAccessTTL() time.Duration { return as.accessTTL }

func (as *authService) RegisterUser(ctx context.Context, u *types.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return apierr.Validation("invalid_email", fmt.Errorf("invalid email"))
	}
	if len(u.Password) < 8 {
		return apierr.Validation("weak_password", fmt.Errorf("password must be at least 8 characters"))
	}
	if u.Role == "" {
		u.Role = types.RoleViewer
	}
	if !validRole(u.Role) {
		return apierr.Validation("invalid_role", fmt.Errorf("unknown role %q", u.Role))
	}

	existing, err := as.userRepo.GetByEmails(dbctx.Context{Ctx: ctx}, []string{u.Email})
	if err != nil {
		return fmt.Errorf("check existing user: %w", err)
	}
	if len(existing) > 0 {
		return apierr.Validation("email_taken", fmt.Errorf("email already registered"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = string(hash)
	u.ID = uuid.New()

	if _, err := as.userRepo.Create(dbctx.Context{Ctx: ctx}, []*types.User{u}); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	users, err := as.userRepo.GetByEmails(dbctx.Context{Ctx: ctx}, []string{email})
	if err != nil {
		return "", "", fmt.Errorf("lookup user: %w", err)
	}
	if len(users) == 0 {
		return "", "", apierr.Unauthorized("invalid_credentials", fmt.Errorf("invalid email or password"))
	}
	u := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", "", apierr.Unauthorized("invalid_credentials", fmt.Errorf("invalid email or password"))
	}
	return as.issueTokens(ctx, u)
}

func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (string, string, error) {
	tokens, err := as.userTokenRepo.GetByRefreshTokens(dbctx.Context{Ctx: ctx}, []string{refreshToken})
	if err != nil {
		return "", "", fmt.Errorf("lookup refresh token: %w", err)
	}
	if len(tokens) == 0 || tokens[0].ExpiresAt.Before(time.Now()) {
		return "", "", apierr.Unauthorized("invalid_refresh_token", fmt.Errorf("refresh token invalid or expired"))
	}
	tok := tokens[0]
	users, err := as.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{tok.UserID})
	if err != nil || len(users) == 0 {
		return "", "", apierr.Unauthorized("invalid_refresh_token", fmt.Errorf("user not found"))
	}
	if err := as.userTokenRepo.FullDeleteByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{tok.ID}); err != nil {
		return "", "", fmt.Errorf("rotate refresh token: %w", err)
	}
	return as.issueTokens(ctx, users[0])
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	return as.userTokenRepo.FullDeleteByUserIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{rd.UserID})
}

// SetContextFromToken verifies the access token and attaches the caller's
// identity and role to the request context. The role claim is re-read from
// the user record so role changes take effect on the next request.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("invalid access token"))
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("invalid token claims"))
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("invalid subject claim"))
	}
	users, err := as.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{userID})
	if err != nil {
		return ctx, fmt.Errorf("lookup user: %w", err)
	}
	if len(users) == 0 {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("user not found"))
	}
	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      users[0].ID,
		Role:        users[0].Role,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) issueTokens(ctx context.Context, u *types.User) (string, string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  u.ID.String(),
		"role": u.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(as.accessTTL).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}
	refreshToken := uuid.New().String()
	userToken := &types.UserToken{
		ID:           uuid.New(),
		UserID:       u.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbctx.Context{Ctx: ctx}, []*types.UserToken{userToken}); err != nil {
		return "", "", fmt.Errorf("persist user token: %w", err)
	}
	return accessToken, refreshToken, nil
}

func validRole(role string) bool {
	switch role {
	case types.RoleAuthor, types.RoleMember, types.RoleViewer:
		return true
	}
	return false
}
