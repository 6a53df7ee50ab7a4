package auth

import "github.com/golang-jwt/jwt/v5"

// PairRequest — запрос на привязку устройства по коду
type PairRequest struct {
	Code       string `json:"code"`
	DeviceName string `json:"device_name,omitempty"`
}

// PairResponse — ответ на успешную привязку
type PairResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	DeviceID    string `json:"device_id"`
}

// DeviceClaims — claims токена устройства
type DeviceClaims struct {
	DeviceName string `json:"device_name,omitempty"`
	jwt.RegisteredClaims
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
