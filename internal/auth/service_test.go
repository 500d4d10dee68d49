package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buahsegar/storefront-backend/internal/users"
	pkgAuth "github.com/buahsegar/storefront-backend/pkg/auth"
	"github.com/buahsegar/storefront-backend/pkg/config"
	"github.com/buahsegar/storefront-backend/pkg/db/models"
	"github.com/buahsegar/storefront-backend/pkg/enums"
	pkgerrors "github.com/buahsegar/storefront-backend/pkg/errors"
	"github.com/buahsegar/storefront-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "buahsegar",
	ExpirationMinutes: 30,
}

func TestServiceLoginIssuesTokensAndPublishesEvent(t *testing.T) {
	password := "Segar123!"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "budi@example.com",
		PasswordHash: mustHashPassword(t, password),
		DisplayName:  "Budi",
		Role:         enums.RoleUser,
	}

	svc, notifier, _ := buildTestService(t, user)

	var events []Event
	notifier.Subscribe(func(_ context.Context, e Event) {
		events = append(events, e)
	})

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Budi@Example.com",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if claims.Role != enums.RoleUser {
		t.Fatalf("expected user role claim, got %s", claims.Role)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token to be set")
	}
	if resp.User == nil || resp.User.LastLoginAt == nil {
		t.Fatal("expected last login to be recorded on the returned user")
	}

	if len(events) != 1 || events[0].Type != EventLogin || events[0].UserID != user.ID {
		t.Fatalf("expected one login event for the user, got %v", events)
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "budi@example.com",
		PasswordHash: mustHashPassword(t, "Segar123!"),
		DisplayName:  "Budi",
		Role:         enums.RoleUser,
	}

	svc, _, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "Wrong123!",
	})
	if err == nil {
		t.Fatal("expected unauthorized for wrong password")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("credential errors must not discriminate, got %q", typed.Message())
	}
}

func TestServiceLoginUnknownEmailUsesSameMessage(t *testing.T) {
	svc, _, _ := buildTestService(t, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "missing@example.com",
		Password: "Segar123!",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestServiceLogoutPublishesEvenOnRevokeFailure(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "budi@example.com",
		PasswordHash: mustHashPassword(t, "Segar123!"),
		Role:         enums.RoleUser,
	}
	svc, notifier, sessionMgr := buildTestService(t, user)
	sessionMgr.revokeErr = errors.New("redis down")

	var events []Event
	notifier.Subscribe(func(_ context.Context, e Event) {
		events = append(events, e)
	})

	err := svc.Logout(context.Background(), user.ID, "access-1")
	if err == nil {
		t.Fatal("expected revoke error to surface for logging")
	}
	if len(events) != 1 || events[0].Type != EventLogout {
		t.Fatalf("logout event must fire regardless of revocation, got %v", events)
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "budi@example.com",
		PasswordHash: mustHashPassword(t, "Segar123!"),
		Role:         enums.RoleAdmin,
	}
	svc, _, sessionMgr := buildTestService(t, user)

	token, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now().Add(-time.Hour), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    "old-access",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  token,
		RefreshToken: "refresh-token",
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if sessionMgr.rotatedFrom != "old-access" {
		t.Fatalf("expected rotation from old jti, got %q", sessionMgr.rotatedFrom)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.Role != enums.RoleAdmin {
		t.Fatalf("role must survive rotation, got %s", claims.Role)
	}
	if claims.ID != sessionMgr.newAccessID {
		t.Fatalf("expected new jti %q, got %q", sessionMgr.newAccessID, claims.ID)
	}
}

func TestServiceUpdateProfileNoFieldsReturnsCurrent(t *testing.T) {
	user := &models.User{
		ID:          uuid.New(),
		Email:       "budi@example.com",
		DisplayName: "Budi",
		Role:        enums.RoleUser,
	}
	svc, _, _ := buildTestService(t, user)

	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if dto.DisplayName != "Budi" {
		t.Fatalf("expected unchanged profile, got %q", dto.DisplayName)
	}
}

func buildTestService(t *testing.T, user *models.User) (Service, *Notifier, *stubSessionManager) {
	t.Helper()
	notifier := NewNotifier()
	sessionMgr := &stubSessionManager{
		refreshToken: "refresh-token",
		newAccessID:  "new-access",
	}
	svc, err := NewService(ServiceParams{
		UserRepo:       &stubUserRepo{user: user},
		SessionManager: sessionMgr,
		Notifier:       notifier,
		JWTConfig:      testJWTConfig,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, notifier, sessionMgr
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.user
	return &copied, nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.user
	return &copied, nil
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

func (s *stubUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, update users.ProfileUpdate) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	if update.DisplayName != nil {
		s.user.DisplayName = *update.DisplayName
	}
	if update.Phone != nil {
		s.user.Phone = update.Phone
	}
	if update.Address != nil {
		s.user.Address = update.Address
	}
	copied := *s.user
	return &copied, nil
}

type stubSessionManager struct {
	refreshToken string
	newAccessID  string
	rotatedFrom  string
	revokeErr    error
	revoked      []string
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if provided != s.refreshToken {
		return "", "", errors.New("invalid refresh token")
	}
	s.rotatedFrom = oldAccessID
	return s.newAccessID, "rotated-refresh", nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return s.revokeErr
}
