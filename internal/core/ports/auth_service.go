package ports

import (
	"context"

	"github.com/pawcare/auth-service/internal/core/domain"
)

// RegisterInput carries already-validated registration data.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      domain.Role
	Device    domain.DeviceInfo
}

// LoginInput carries login credentials and the calling device.
type LoginInput struct {
	Email    string
	Password string
	Device   domain.DeviceInfo
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User      domain.UserView
	Tokens    domain.AuthTokens
	ExpiresIn int // access-token lifetime in seconds
}

// RefreshResult is returned by Refresh. The refresh token and its session are unchanged.
type RefreshResult struct {
	AccessToken string
	ExpiresIn   int
}

// LogoutInput carries whatever credentials the client presented.
type LogoutInput struct {
	RefreshToken string
	AccessToken  string
	Device       domain.DeviceInfo
}

// LogoutResult tells the transport which success message applies.
type LogoutResult struct {
	NoActiveSession bool
}

// ChangePasswordInput is used by an authenticated user to rotate credentials.
type ChangePasswordInput struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
	Device          domain.DeviceInfo
}

// AuthService defines the authentication flows. Every returned error is a *domain.Error.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
	Logout(ctx context.Context, in LogoutInput) (LogoutResult, error)
	Me(ctx context.Context, accessToken string) (*domain.UserView, error)
	LogoutAll(ctx context.Context, userID string) (int64, error)
	ChangePassword(ctx context.Context, in ChangePasswordInput) error
	SetUserActive(ctx context.Context, userID string, active bool) (*domain.UserView, error)
}
