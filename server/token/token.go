// Package token issues and validates the JWTs the cfgkit server uses to
// authenticate requests.
package token

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/cfgkit/server/dao"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "cfgkit-server"

// signKey derives the HS512 signing key for an account: the server secret
// combined with the account's current password hash and last-logout time, so
// that changing the password or logging out invalidates every token issued
// before that point without needing a revocation list.
func signKey(secret []byte, acc dao.Account) []byte {
	var key []byte
	key = append(key, secret...)
	key = append(key, []byte(acc.PasswordHash)...)
	key = append(key, []byte(fmt.Sprintf("%d", acc.LastLogoutTime.Unix()))...)
	return key
}

// Generate returns a signed JWT asserting the identity of acc.
func Generate(secret []byte, acc dao.Account) (string, error) {
	claims := &jwt.MapClaims{
		"iss": issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
		"sub": acc.ID.String(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(signKey(secret, acc))
}

// Validate parses and verifies tok, looks up the account named by its
// subject claim in db, and returns that account if the token's signature and
// claims check out against it.
func Validate(ctx context.Context, tok string, secret []byte, db dao.AccountRepository) (dao.Account, error) {
	var acc dao.Account

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		acc, err = db.GetByID(ctx, id)
		if err != nil {
			if err == dao.ErrNotFound {
				return nil, fmt.Errorf("subject does not exist")
			}
			return nil, fmt.Errorf("subject could not be validated")
		}

		return signKey(secret, acc), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return dao.Account{}, err
	}

	return acc, nil
}

// Get extracts the bearer token from req's Authorization header.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	tok := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return tok, nil
}
