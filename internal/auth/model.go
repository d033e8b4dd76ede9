package auth

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Claims is the verified payload of an access token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type RegisterResult struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Username string `json:"-"`
}

type LoginResult struct {
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
}
