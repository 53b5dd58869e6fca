package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the browser cookie carrying the signed session reference.
const CookieName = "helpdesk_session"

// Codec signs and verifies the session cookie. The cookie carries only the
// session id; the credential and profile stay server-side in the Store.
type Codec struct {
	secret []byte
}

// NewCodec creates a Codec with the given HMAC secret.
func NewCodec(secret string) (*Codec, error) {
	if len(secret) < 16 {
		return nil, errors.New("session: cookie secret must be at least 16 characters")
	}
	return &Codec{secret: []byte(secret)}, nil
}

type cookieClaims struct {
	jwt.RegisteredClaims
}

// Issue signs a cookie value referencing sessionID, valid until expires.
func (c *Codec) Issue(sessionID string, expires time.Time) (string, error) {
	claims := cookieClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expires),
			Issuer:    "helpdesk-web",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("session: signing cookie: %w", err)
	}
	return signed, nil
}

// Verify parses a cookie value and returns the session id it references.
func (c *Codec) Verify(value string) (string, error) {
	var claims cookieClaims
	token, err := jwt.ParseWithClaims(value, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("session: unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("session: parsing cookie: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("session: invalid cookie")
	}
	return claims.Subject, nil
}

// SetCookie writes the session cookie on the response.
func SetCookie(w http.ResponseWriter, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
