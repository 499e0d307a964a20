package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSecret means the signing secret was never configured. Requests
// hitting this are a deployment problem, not a client problem.
var ErrMissingSecret = errors.New("JWT secret is not configured")

var jwtSecret string

const tokenLifetime = 24 * time.Hour

// Claims is the identity a verified token asserts.
type Claims struct {
	ID    uint
	Email string
	Role  string
}

func InitJWTSecret() error {
	jwtSecret = os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return nil
}

func GenerateJWT(userID uint, email string, role string) (string, error) {
	if jwtSecret == "" {
		return "", ErrMissingSecret
	}

	claims := jwt.MapClaims{
		"id":    userID,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

func VerifyJWT(tokenString string) (Claims, error) {
	if jwtSecret == "" {
		return Claims{}, ErrMissingSecret
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("invalid or expired token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("invalid token claims")
	}

	idFloat, ok := mapClaims["id"].(float64)
	if !ok {
		return Claims{}, fmt.Errorf("invalid user ID in token claims")
	}

	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)

	return Claims{
		ID:    uint(idFloat),
		Email: email,
		Role:  role,
	}, nil
}
