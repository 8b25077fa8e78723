package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// Authentification du back-office. Un seul rôle admin, tokens d'accès
// courts, pas de refresh: l'admin se reconnecte.
type AuthUsecase struct {
	admins    repo.AdminUserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthUsecase(admins repo.AdminUserRepository, jwtSecret string, tokenTTL time.Duration) *AuthUsecase {
	return &AuthUsecase{admins: admins, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Email       string `json:"email"`
}

// Message identique pour email inconnu et mauvais mot de passe
const msgBadCredentials = "Email ou mot de passe incorrect"

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, msgBadCredentials)
	}

	admin, err := u.admins.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, msgBadCredentials)
	}
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(in.Password)) != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, msgBadCredentials)
	}

	now := time.Now()
	expiresAt := now.Add(u.tokenTTL)
	claims := jwt.MapClaims{
		"sub":  admin.Email,
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(u.jwtSecret)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	return LoginOutput{
		AccessToken: signed,
		ExpiresIn:   int64(u.tokenTTL.Seconds()),
		Email:       admin.Email,
	}, nil
}

type SetupInput struct {
	Email    string
	Password string
}

// Setup crée le tout premier compte admin. Refusé dès qu'un compte existe:
// les suivants se créent depuis le back-office authentifié.
func (u *AuthUsecase) Setup(ctx context.Context, in SetupInput) error {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if len(in.Password) < 8 {
		return NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	n, err := u.admins.Count(ctx)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if n > 0 {
		return NewHTTPError(http.StatusForbidden, "setup already done")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 12)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "hash error")
	}

	if _, err := u.admins.Create(ctx, model.AdminUser{
		Email:        email,
		PasswordHash: string(hash),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
