package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	// ErrTokenInvalid 在令牌无法通过校验时返回
	ErrTokenInvalid = errors.New("invalid or expired token")
	// ErrSecretMissing 在未配置签名密钥时返回
	ErrSecretMissing = errors.New("token secret not configured")
)

// Claims 是访问令牌携带的声明
type Claims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenIssuer 负责签发与解析访问令牌
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer 构造 TokenIssuer，ttl 不合法时回退到 24 小时
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(strings.TrimSpace(secret)), ttl: ttl}
}

// Issue 为指定用户签发访问令牌
func (t *TokenIssuer) Issue(userID uint) (string, error) {
	if len(t.secret) == 0 {
		return "", ErrSecretMissing
	}

	now := time.Now()
	claims := Claims{
		UserID:    userID,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse 校验令牌并返回其中的用户 ID
func (t *TokenIssuer) Parse(tokenString string) (uint, error) {
	if len(t.secret) == 0 {
		return 0, ErrSecretMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrTokenInvalid
	}

	if claims.TokenType != "access" || claims.UserID == 0 {
		return 0, ErrTokenInvalid
	}

	return claims.UserID, nil
}
