package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yukikurage/business-management-api/internal/constants"
)

// TokenClass distinguishes access, refresh and password-reset tokens. No
// endpoint issues reset tokens yet; the class only keeps them from passing as
// access or refresh tokens.
type TokenClass string

const (
	TokenAccess  TokenClass = "access"
	TokenRefresh TokenClass = "refresh"
	TokenReset   TokenClass = "reset"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrWrongTokenClass  = errors.New("token class mismatch")
	ErrMalformedSubject = errors.New("malformed token subject")
)

type Claims struct {
	Class TokenClass `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair is returned on sign-in, refresh and password change.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type TokenManager struct {
	secret []byte
	issuer string
	ttl    map[TokenClass]time.Duration
	now    func() time.Time
}

func NewTokenManager(secret, issuer string, accessTTL, refreshTTL, resetTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl: map[TokenClass]time.Duration{
			TokenAccess:  accessTTL,
			TokenRefresh: refreshTTL,
			TokenReset:   resetTTL,
		},
		now: time.Now,
	}
}

// Issue signs a token of the given class for userID.
func (tm *TokenManager) Issue(userID uint64, class TokenClass) (string, error) {
	ttl, ok := tm.ttl[class]
	if !ok {
		return "", fmt.Errorf("unknown token class %q", class)
	}
	now := tm.now()
	claims := Claims{
		Class: class,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			Issuer:    tm.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// IssuePair signs a fresh access and refresh token.
func (tm *TokenManager) IssuePair(userID uint64) (*TokenPair, error) {
	access, err := tm.Issue(userID, TokenAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := tm.Issue(userID, TokenRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    strings.ToLower(constants.BearerScheme),
	}, nil
}

// Verify parses tokenString and checks signature, expiry, issuer and class.
func (tm *TokenManager) Verify(tokenString string, class TokenClass) (uint64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	},
		jwt.WithIssuer(tm.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}
	if claims.Class != class {
		return 0, ErrWrongTokenClass
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrMalformedSubject
	}
	return userID, nil
}

// VerifyAccess verifies an access token.
func (tm *TokenManager) VerifyAccess(tokenString string) (uint64, error) {
	return tm.Verify(tokenString, TokenAccess)
}

// ExtractToken returns the credential from an "Authorization: Bearer x" header.
func ExtractToken(authHeader string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], constants.BearerScheme) {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}
