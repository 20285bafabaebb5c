package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/localnerve/storefront/internal/models"
	"github.com/localnerve/storefront/internal/types"
	"github.com/localnerve/storefront/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Unauthorized messages
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgTokenNotValid      = "Token is not valid"
	MsgUserNotActive      = "User is not active"
)

// BcryptCost is the work factor for stored password hashes
const BcryptCost = bcrypt.DefaultCost

// RegisterInput represents input for account registration
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50,password"`
	FullName string `json:"fullName" validate:"required,min=1"`
}

// LoginInput represents input for login
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50"`
}

// AuthResponse is a user with a freshly signed token
type AuthResponse struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	FullName string            `json:"fullName"`
	IsActive bool              `json:"isActive"`
	Roles    models.StringList `json:"roles"`
	Token    string            `json:"token"`
}

// Claims is the token payload
type Claims struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens
type TokenIssuer struct {
	secret    []byte
	expiresIn time.Duration
}

// NewTokenIssuer signs tokens with secret that expire after expiresIn.
func NewTokenIssuer(secret string, expiresIn time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:    []byte(secret),
		expiresIn: expiresIn,
	}
}

// Sign issues a token for user
func (ti *TokenIssuer) Sign(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// Verify checks the signature and expiry of tokenString
func (ti *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil {
		return nil, types.NewUnauthorized(MsgTokenNotValid)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, types.NewUnauthorized(MsgTokenNotValid)
	}
	return claims, nil
}

// HashPassword hashes a plain password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NormalizeEmail lowercases and trims an email
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an active account with the default role and signs it a token
func Register(ctx context.Context, db *gorm.DB, tokens *TokenIssuer, input RegisterInput) (*AuthResponse, error) {
	input.Email = NormalizeEmail(input.Email)
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		zap.L().Error("Failed to hash password", zap.Error(err))
		return nil, types.NewInternal()
	}

	user := models.User{
		ID:       uuid.NewString(),
		Email:    input.Email,
		Password: hash,
		FullName: input.FullName,
		IsActive: true,
		Roles:    models.StringList{models.RoleUser},
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, handleDBError("register user", err)
	}

	return newAuthResponse(tokens, &user)
}

// Login verifies credentials and signs a token
func Login(ctx context.Context, db *gorm.DB, tokens *TokenIssuer, input LoginInput) (*AuthResponse, error) {
	input.Email = NormalizeEmail(input.Email)
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	var user models.User
	err := db.WithContext(ctx).
		Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("email = ?", input.Email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewUnauthorized(MsgInvalidCredentials)
		}
		return nil, handleDBError("login", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		return nil, types.NewUnauthorized(MsgInvalidCredentials)
	}
	if !user.IsActive {
		return nil, types.NewUnauthorized(MsgUserNotActive)
	}

	return newAuthResponse(tokens, &user)
}

// CheckStatus re-issues a token for an already authenticated user
func CheckStatus(tokens *TokenIssuer, user *models.User) (*AuthResponse, error) {
	return newAuthResponse(tokens, user)
}

// FindUserByID loads a user, NotFound when absent
func FindUserByID(ctx context.Context, db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).
		Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFound("User with %s not found", id)
		}
		return nil, handleDBError("find user", err)
	}
	return &user, nil
}

// Authenticate resolves a bearer token to an existing, active user
func Authenticate(ctx context.Context, db *gorm.DB, tokens *TokenIssuer, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, types.NewUnauthorized(MsgTokenNotValid)
	}

	claims, err := tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := FindUserByID(ctx, db, claims.ID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.NewUnauthorized(MsgTokenNotValid)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, types.NewUnauthorized(MsgUserNotActive)
	}
	return user, nil
}

// UserStore adapts the users table to lookups by id
type UserStore struct {
	DB *gorm.DB
}

func (s *UserStore) FindUser(ctx context.Context, id string) (*models.User, error) {
	return FindUserByID(ctx, s.DB, id)
}

// DeleteAllUsers removes every account, products must be removed first
func DeleteAllUsers(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.User{}).Error; err != nil {
		return handleDBError("delete all users", err)
	}
	return nil
}

func newAuthResponse(tokens *TokenIssuer, user *models.User) (*AuthResponse, error) {
	token, err := tokens.Sign(user)
	if err != nil {
		zap.L().Error("Failed to sign token", zap.String("user", user.ID), zap.Error(err))
		return nil, types.NewInternal()
	}

	return &AuthResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		IsActive: user.IsActive,
		Roles:    user.Roles,
		Token:    token,
	}, nil
}
