package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind distinguishes short-lived access tokens from refresh tokens.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongKind    = errors.New("token kind mismatch")
	ErrEmptySecret  = errors.New("signing secret is empty")
)

// Claims is the payload carried by every token the Issuer signs.
type Claims struct {
	Kind Kind `json:"kind"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens for user ids.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// IssueAccess creates an access token for userID.
func (i *Issuer) IssueAccess(userID uint64) (string, time.Time, error) {
	return i.issue(userID, KindAccess, i.accessTTL)
}

// IssueRefresh creates a refresh token for userID.
func (i *Issuer) IssueRefresh(userID uint64) (string, time.Time, error) {
	return i.issue(userID, KindRefresh, i.refreshTTL)
}

func (i *Issuer) issue(userID uint64, kind Kind, ttl time.Duration) (string, time.Time, error) {
	issuedAt := i.now()
	expiresAt := issuedAt.Add(ttl)

	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, expiresAt, nil
}

// Parse verifies raw and returns the user id it was issued for. The token
// must be unexpired, signed with HS256 and of the expected kind.
func (i *Issuer) Parse(raw string, want Kind) (uint64, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Kind != want {
		return 0, ErrWrongKind
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return userID, nil
}
