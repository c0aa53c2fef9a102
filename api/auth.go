package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pquerna/otp/totp"
	"github.com/spf13/viper"
	"github.com/tifye/shopsim/assert"
)

const tokenTTL = 12 * time.Hour

var errMissingToken = errors.New("missing bearer token")

func verifyToken(c echo.Context, config *viper.Viper) error {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return errMissingToken
	}

	signingKey := config.GetString("jwt_signing_key")
	assert.AssertNotEmpty(signingKey)

	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	_, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(signingKey), nil
	}, jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err
}

func tokenErrorResponse(c echo.Context, logger *log.Logger, err error) error {
	switch {
	case errors.Is(err, errMissingToken):
		return c.NoContent(http.StatusUnauthorized)
	case errors.Is(err, jwt.ErrTokenExpired):
		return c.String(http.StatusUnauthorized, "token expired")
	case errors.Is(err, jwt.ErrTokenMalformed):
		return c.String(http.StatusBadRequest, "malformed token")
	default:
		logger.Debug("token parse fail", "err", err)
		return c.NoContent(http.StatusUnauthorized)
	}
}

func requireAuthMiddleware(logger *log.Logger, config *viper.Viper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := verifyToken(c, config); err != nil {
				return tokenErrorResponse(c, logger, err)
			}
			return next(c)
		}
	}
}

func handlePostVerifyToken(logger *log.Logger, config *viper.Viper) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := verifyToken(c, config); err != nil {
			return tokenErrorResponse(c, logger, err)
		}
		return c.NoContent(http.StatusOK)
	}
}

// handleGetToken trades a valid TOTP passcode for a signed token
// that allows submitting decisions.
func handleGetToken(logger *log.Logger, config *viper.Viper) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret := config.GetString("otp_secret")
		assert.AssertNotEmpty(secret)

		passcode := c.Request().Header.Get("Passcode")
		if passcode == "" {
			return c.NoContent(http.StatusBadRequest)
		}

		if !totp.Validate(passcode, secret) {
			return c.NoContent(http.StatusUnauthorized)
		}

		signed, err := signToken(config.GetString("jwt_signing_key"), time.Now())
		if err != nil {
			logger.Error("jwt sign", "err", err)
			return c.NoContent(http.StatusInternalServerError)
		}

		return c.String(http.StatusOK, signed)
	}
}

func signToken(signingKey string, now time.Time) (string, error) {
	assert.AssertNotEmpty(signingKey)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	return token.SignedString([]byte(signingKey))
}
