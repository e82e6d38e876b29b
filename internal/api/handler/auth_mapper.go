package handler

import (
	"github.com/pawcare/auth-service/internal/core/domain"
	"github.com/pawcare/auth-service/internal/core/ports"
)

func toRegisterInput(req registerRequest, device domain.DeviceInfo) ports.RegisterInput {
	return ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      domain.Role(req.Role),
		Device:    device,
	}
}

func toAuthResponse(res *ports.AuthResult) authResponse {
	return authResponse{
		User: res.User,
		Tokens: tokensResponse{
			AccessToken:  res.Tokens.AccessToken,
			RefreshToken: res.Tokens.RefreshToken,
			ExpiresIn:    res.ExpiresIn,
		},
	}
}
