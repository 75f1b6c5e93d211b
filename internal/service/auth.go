package service

import (
	"context"
	"time"

	"crown-hotels-booking/internal/logger"
	"crown-hotels-booking/internal/security"

	"golang.org/x/crypto/bcrypt"
)

// StaffAccount is a front-desk login. PasswordHash is a bcrypt hash.
type StaffAccount struct {
	Username     string
	PasswordHash string
	Role         string
}

type authService struct {
	accounts map[string]StaffAccount
	tokens   security.TokenManager
}

func NewAuthService(accounts []StaffAccount, tokens security.TokenManager) AuthService {
	byName := make(map[string]StaffAccount, len(accounts))
	for _, a := range accounts {
		byName[a.Username] = a
	}
	return &authService{accounts: byName, tokens: tokens}
}

func (s *authService) Login(_ context.Context, username, password string) (string, time.Time, error) {
	account, ok := s.accounts[username]
	if !ok {
		logger.Warn("Login for unknown staff account", "username", username)
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Staff login rejected", "username", username)
		return "", time.Time{}, ErrInvalidCredentials
	}
	return s.tokens.GenerateAccessToken(account.Username, account.Role)
}
