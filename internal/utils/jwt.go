// internal/utils/jwt.go
package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	zlog "github.com/rs/zerolog/log"
)

// JwtClaims mendefinisikan payload yang disimpan di dalam token JWT.
// Backend ini tidak punya konsep role; semua endpoint di-scope per user.
type JwtClaims struct {
	UserID               int    `json:"user_id"`
	Username             string `json:"username"`
	jwt.RegisteredClaims // Claims standar JWT (ExpiresAt, IssuedAt, Issuer, dll.)
}

// jwtSecret dipakai untuk menandatangani dan memverifikasi token JWT.
// Diambil dari environment variable "JWT_SECRET" saat paket dimuat.
var jwtSecret = []byte(os.Getenv("JWT_SECRET"))

// GenerateJWT membuat token JWT baru yang ditandatangani untuk user tertentu.
func GenerateJWT(userID int, username string) (string, error) {
	expirationTime := time.Now().Add(72 * time.Hour)

	claims := JwtClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "quran-companion",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(jwtSecret)
	if err != nil {
		zlog.Error().Err(err).Msg("Error signing JWT token")
		return "", fmt.Errorf("error signing token: %w", err)
	}

	zlog.Debug().Int("user_id", userID).Str("username", username).Msg("Generated JWT token")
	return signedToken, nil
}

// ValidateJWT memverifikasi token JWT: signature, masa berlaku, dan parsing
// claims ke JwtClaims.
func ValidateJWT(tokenString string) (*JwtClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Pastikan algoritma sesuai harapan; mencegah serangan penggantian
		// algoritma (misal ke 'none').
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			algo := "unknown"
			if algStr, okAlg := token.Header["alg"].(string); okAlg {
				algo = algStr
			}
			zlog.Warn().Str("algorithm", algo).Msg("Unexpected signing method during JWT validation")
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})

	if err != nil {
		zlog.Warn().Err(err).Msg("Error parsing or validating JWT token")
		return nil, fmt.Errorf("error parsing token: %w", err)
	}

	if claims, ok := token.Claims.(*JwtClaims); ok && token.Valid {
		zlog.Debug().Str("username", claims.Username).Int("user_id", claims.UserID).Msg("JWT token validated successfully")
		return claims, nil
	}

	zlog.Warn().Msg("Invalid token or claims after parsing")
	return nil, fmt.Errorf("invalid token")
}

// ExtractToken mengambil token string dari header "Authorization".
// Mengharapkan format "Bearer <token>".
func ExtractToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}

	zlog.Warn().Str("AuthorizationHeader", authHeader).Msg("Invalid Authorization header format (Expected 'Bearer <token>')")
	return ""
}

// ExtractUserIDFromJWT mengambil UserID dari context Fiber. Mengasumsikan
// middleware Protected() sudah menyimpan *JwtClaims di c.Locals("user").
func ExtractUserIDFromJWT(c *fiber.Ctx) (int, error) {
	claims, ok := c.Locals("user").(*JwtClaims)
	if !ok {
		zlog.Error().Str("path", c.Path()).Msg("Could not extract user claims from Fiber context (middleware issue?)")
		return 0, fmt.Errorf("could not extract user claims from context")
	}
	return claims.UserID, nil
}
