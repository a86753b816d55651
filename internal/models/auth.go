package models

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	UserName    string `json:"userName" binding:"required"`
	UserID      string `json:"userId" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
	City        string `json:"city"`
	State       string `json:"state"`
}

// LoginRequest accepts any identifier: email, phone number or userId.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"`
	User        *User  `json:"user"`
}
