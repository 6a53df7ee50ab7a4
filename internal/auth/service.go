package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/vitalis/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidCode     = errors.New("invalid pairing code")
	ErrPairingDisabled = errors.New("pairing is disabled")
)

// Service — выдача и проверка токенов устройств
type Service struct {
	config *config.Config
	now    func() time.Time
}

func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg, now: time.Now}
}

// Pair exchanges the configured pairing code for a device token.
func (s *Service) Pair(req *PairRequest) (*PairResponse, error) {
	expected := strings.TrimSpace(s.config.PairingCode)
	if expected == "" {
		return nil, ErrPairingDisabled
	}
	code := strings.TrimSpace(req.Code)
	if subtle.ConstantTimeCompare([]byte(code), []byte(expected)) != 1 {
		return nil, ErrInvalidCode
	}

	deviceID := uuid.NewString()
	ttl := time.Duration(s.config.JWTTTLMinutes) * time.Minute
	token, err := s.generateJWT(deviceID, strings.TrimSpace(req.DeviceName), ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate device JWT: %w", err)
	}

	return &PairResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
		DeviceID:    deviceID,
	}, nil
}

func (s *Service) generateJWT(deviceID, deviceName string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := DeviceClaims{
		DeviceName: deviceName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   deviceID,
			Issuer:    s.config.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyJWT — проверка токена, возвращает device id
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	claims := &DeviceClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.JWTIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
