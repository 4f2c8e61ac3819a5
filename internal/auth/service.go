package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"acaiteria/pkg/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const issuer = "acaiteria"

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidCredentials = errors.New("email ou senha inválidos")
	ErrUserDisabled       = errors.New("conta desativada")
	ErrEmailTaken         = errors.New("email já cadastrado")
	ErrInvalidToken       = errors.New("token inválido")
	ErrWrongPassword      = errors.New("senha atual incorreta")
)

// UserRepository interface for user data access
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// Options configures token signing
type Options struct {
	Secret          string
	AccessDuration  time.Duration
	RefreshDuration time.Duration
}

// Service handles authentication logic
type Service struct {
	userRepo UserRepository
	opts     Options
	now      func() time.Time
}

// NewService creates a new auth service
func NewService(userRepo UserRepository, opts Options) *Service {
	if opts.AccessDuration <= 0 {
		opts.AccessDuration = 15 * time.Minute
	}
	if opts.RefreshDuration <= 0 {
		opts.RefreshDuration = 24 * time.Hour
	}
	return &Service{
		userRepo: userRepo,
		opts:     opts,
		now:      time.Now,
	}
}

// LoginRequest represents login request data
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents login response data
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
	ExpiresIn    int64       `json:"expires_in"`
}

// RefreshRequest represents refresh request data
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	Type   string    `json:"type"` // access or refresh
	jwt.RegisteredClaims
}

// Register creates a customer account and logs it in
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: hash,
		Name:     strings.TrimSpace(req.Name),
		Phone:    req.Phone,
		Role:     models.RoleCustomer,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login authenticates a user and returns tokens
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	if !s.verifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	// Update last login
	now := s.now()
	user.LastLoginAt = &now
	s.userRepo.Update(ctx, user)

	return s.issue(user)
}

// RefreshToken generates new tokens from refresh token
func (s *Service) RefreshToken(ctx context.Context, tokenString string) (*LoginResponse, error) {
	claims, err := s.validateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Type != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	return s.issue(user)
}

func (s *Service) issue(user *models.User) (*LoginResponse, error) {
	accessToken, err := s.generateToken(user, TokenTypeAccess, s.opts.AccessDuration)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateToken(user, TokenTypeRefresh, s.opts.RefreshDuration)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *user,
		ExpiresIn:    int64(s.opts.AccessDuration.Seconds()),
	}, nil
}

// ValidateToken validates an access token
func (s *Service) ValidateToken(tokenString string) (*TokenClaims, error) {
	claims, err := s.validateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != TokenTypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashPassword hashes a password using bcrypt
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Profile returns the current user
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile updates user profile information
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Phone = req.Phone

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ChangePassword changes user password
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req models.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	// Verify current password
	if !s.verifyPassword(req.CurrentPassword, user.Password) {
		return ErrWrongPassword
	}

	hashedPassword, err := s.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

func (s *Service) generateToken(user *models.User, tokenType string, duration time.Duration) (string, error) {
	now := s.now()
	claims := TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.opts.Secret))
}

// validateToken validates and parses a JWT token
func (s *Service) validateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.opts.Secret), nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// verifyPassword verifies a password against its hash
func (s *Service) verifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
