package api

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Claims struct {
	UserID    int64 `json:"userId"`
	ExpiresAt int64 `json:"exp"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type RegisterResponse struct {
	User *User `json:"user"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type VerifyRequest struct {
	Token string `json:"token"`
}

// VerifyResponse carries Claims only when Valid is true. Why a token was
// rejected is not disclosed.
type VerifyResponse struct {
	Valid  bool    `json:"valid"`
	Claims *Claims `json:"claims,omitempty"`
}

type WhoAmIRequest struct{}

type WhoAmIResponse struct {
	UserID    int64 `json:"userId"`
	ExpiresAt int64 `json:"expiresAt"`
}

type LogoutRequest struct{}

type LogoutResponse struct {
	Revoked int64 `json:"revoked"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
