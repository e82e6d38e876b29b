package handler

import "github.com/pawcare/auth-service/internal/core/domain"

type registerRequest struct {
	Email     string `json:"email" validate:"required,min=5,max=100,email"`
	Password  string `json:"password" validate:"required,min=8,max=50,password"`
	FirstName string `json:"firstName" validate:"required,min=2,max=50,personname"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50,personname"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Role      string `json:"role" validate:"omitempty,oneof=USER ADMIN VETERINARY RECEPTIONIST TRAINER DRIVER"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// refreshRequest is shared by refresh and logout. The token may also come
// from the refreshToken cookie.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=50,password"`
}

type setStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type tokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

type authResponse struct {
	User   domain.UserView `json:"user"`
	Tokens tokensResponse  `json:"tokens"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

type userResponse struct {
	User domain.UserView `json:"user"`
}

type logoutAllResponse struct {
	SessionsRevoked int64 `json:"sessionsRevoked"`
}
