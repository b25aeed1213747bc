package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

const (
	AccessTokenLifetime  = time.Hour
	RefreshTokenLifetime = 30 * 24 * time.Hour
)

var ErrTokenExpired = errors.New("token expired")

type JWTService interface {
	GenerateTokenPair(userID int64) (access string, refresh string, err error)
	GenerateAccessToken(userID int64) (string, error)
	// ValidateToken verifies signature and expiry and checks the token is
	// of the wanted type. Claims carry only the user id; callers re-read
	// the user row for role and balance.
	ValidateToken(tokenString string, want TokenType) (*TokenClaims, error)
}

type TokenClaims struct {
	UserID int64
	Type   TokenType
}

type jwtService struct {
	secretKey string
}

func NewJWTService(secretKey string) JWTService {
	return &jwtService{secretKey: secretKey}
}

type jwtClaims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func (j *jwtService) GenerateTokenPair(userID int64) (string, string, error) {
	access, err := j.sign(userID, TokenAccess, AccessTokenLifetime)
	if err != nil {
		return "", "", err
	}
	refresh, err := j.sign(userID, TokenRefresh, RefreshTokenLifetime)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (j *jwtService) GenerateAccessToken(userID int64) (string, error) {
	return j.sign(userID, TokenAccess, AccessTokenLifetime)
}

func (j *jwtService) sign(userID int64, tokenType TokenType, lifetime time.Duration) (string, error) {
	claims := jwtClaims{
		UserID:    userID,
		TokenType: string(tokenType),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) ValidateToken(tokenString string, want TokenType) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, err
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if TokenType(claims.TokenType) != want {
		return nil, fmt.Errorf("token is not a %s token", want)
	}

	return &TokenClaims{UserID: claims.UserID, Type: TokenType(claims.TokenType)}, nil
}
