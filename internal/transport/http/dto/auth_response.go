package dto

import "github.com/mentorhub/community-platform/services/auth-service/internal/domain"

// UserView is the public-safe identity projection. The credential hash and
// reset token state never leave the service.
type UserView struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"emailVerified"`
}

func NewUserView(u domain.User) UserView {
	return UserView{
		ID:            u.ID,
		FullName:      u.FullName,
		Email:         u.Email,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
	}
}

// -------- Core auth --------

type RegisterResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	TokenType    string   `json:"tokenType"`
	ExpiresIn    int64    `json:"expiresIn"`
	User         UserView `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// -------- Me --------

type MeResponse struct {
	User UserView `json:"user"`
}

// -------- Moderation --------

type ModerationResponse struct {
	Status string `json:"status"`
	UserID string `json:"userId"`
}
