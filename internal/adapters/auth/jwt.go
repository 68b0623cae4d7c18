// Package auth resolves bearer tokens issued by the account service.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload. user_id may be encoded as a number or a string.
type Claims struct {
	UserID json.Number `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTGate verifies HS256 tokens and looks the subject up in the directory.
type JWTGate struct {
	secret []byte
	users  core.Directory
	parser *jwt.Parser
}

func NewJWTGate(secret string, users core.Directory) *JWTGate {
	return &JWTGate{
		secret: []byte(secret),
		users:  users,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

func (g *JWTGate) Resolve(ctx context.Context, credential string) (domain.Identity, error) {
	if credential == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing credential", domain.ErrUnauthorized)
	}
	claims := &Claims{}
	_, err := g.parser.ParseWithClaims(credential, claims, func(*jwt.Token) (any, error) {
		return g.secret, nil
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	raw, err := strconv.ParseInt(claims.UserID.String(), 10, 64)
	if err != nil || raw <= 0 {
		return domain.Identity{}, fmt.Errorf("%w: bad user_id claim %q", domain.ErrUnauthorized, claims.UserID)
	}

	who, err := g.users.UserByID(ctx, domain.UserID(raw))
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: user lookup: %w", domain.ErrStorage, err)
	}
	return who, nil
}
