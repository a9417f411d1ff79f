package models

import (
	"errors"
	"strings"
	"time"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	var errs []string

	if r.Username == "" {
		errs = append(errs, "username is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type LoginResponse struct {
	Token     string                `json:"token"`
	ExpiresAt string                `json:"expiresAt"`
	Account   AccountResponse       `json:"account"`
	History   []TransactionResponse `json:"history"`
}

func FormatExpiry(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

type LogoutResponse struct {
	Username string `json:"username"`
}
