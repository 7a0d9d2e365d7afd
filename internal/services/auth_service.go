package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/infra"
	"storefront-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 10 * time.Minute

type AuthService struct {
	store       repository.Store
	mailer      infra.MailerInterface
	jwtSecret   []byte
	tokenTTL    time.Duration
	frontendURL string
}

func NewAuthService(store repository.Store, mailer infra.MailerInterface, jwtSecret string, tokenTTL time.Duration, frontendURL string) *AuthService {
	return &AuthService{
		store:       store,
		mailer:      mailer,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		frontendURL: frontendURL,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password, passwordConfirm string, role domain.Role) (*domain.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", validationf("name, email and password are required")
	}
	if !emailRegex.MatchString(email) {
		return nil, "", validationf("invalid email address format")
	}
	if len(password) < 8 {
		return nil, "", validationf("password must be at least 8 characters")
	}
	if password != passwordConfirm {
		return nil, "", validationf("passwords do not match")
	}
	if role != domain.RoleAdmin {
		role = domain.RoleUser
	}

	existing, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", validationf("please provide email and password")
	}

	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrWrongCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrWrongCredential
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, id uint64) (*domain.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ForgotPassword always succeeds from the caller's point of view so the
// endpoint cannot be used to probe which emails are registered.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	token := uuid.NewString()
	expires := time.Now().Add(resetTokenTTL)
	if err := s.store.Users().SetResetToken(ctx, user.ID, token, expires); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(user.Email, resetURL); err != nil {
			log.Printf("failed to send password reset mail to %s: %v", user.Email, err)
			return err
		}
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password, passwordConfirm string) (*domain.User, string, error) {
	if len(password) < 8 {
		return nil, "", validationf("password must be at least 8 characters")
	}
	if password != passwordConfirm {
		return nil, "", validationf("passwords do not match")
	}

	user, err := s.store.Users().FindByResetToken(ctx, token)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrResetExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	if err := s.store.Users().UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return nil, "", err
	}

	jwtToken, err := s.signToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, jwtToken, nil
}

// Claims is the JWT payload carried by both the bearer header and the
// httpOnly jwt cookie.
type Claims struct {
	UserID uint64      `json:"id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) signToken(user *domain.User) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// ParseToken validates the signature and expiry and returns the claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
