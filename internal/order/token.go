package order

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "gamestore"

// DownloadTokenMaker signs and parses download tokens. It is optional:
// with no maker configured, download tokens are bare order IDs.
type DownloadTokenMaker struct {
	secret []byte
	ttl    time.Duration
}

func NewDownloadTokenMaker(secret string, ttl time.Duration) *DownloadTokenMaker {
	return &DownloadTokenMaker{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

type downloadClaims struct {
	OrderID string `json:"order_id"`
	jwt.RegisteredClaims
}

func (t *DownloadTokenMaker) New(orderID string) (string, error) {
	now := time.Now()

	claims := downloadClaims{
		OrderID: orderID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   orderID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse returns the order ID carried by a valid, unexpired token.
func (t *DownloadTokenMaker) Parse(tokenStr string) (string, error) {
	var c downloadClaims

	token, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || token == nil || !token.Valid || c.OrderID == "" {
		return "", errors.New("invalid token")
	}

	return c.OrderID, nil
}
