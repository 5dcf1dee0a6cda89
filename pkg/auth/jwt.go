package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DoctorClaims carries the doctor identity resolved at the request
// boundary. Core services receive the doctor ID explicitly and never
// read ambient session state.
type DoctorClaims struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Email    string    `json:"email"`
	jwt.RegisteredClaims
}

type TokenService interface {
	GenerateToken(doctorID uuid.UUID, email string) (string, error)
	ValidateToken(token string) (*DoctorClaims, error)
}

type jwtService struct {
	secret      []byte
	expiryHours int
}

func NewTokenService(secret string, expiryHours int) TokenService {
	return &jwtService{secret: []byte(secret), expiryHours: expiryHours}
}

func (s *jwtService) GenerateToken(doctorID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := DoctorClaims{
		DoctorID: doctorID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   doctorID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expiryHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*DoctorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DoctorClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*DoctorClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
