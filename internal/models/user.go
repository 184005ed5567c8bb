// internal/models/user.go
package models

import "github.com/dgrijalva/jwt-go"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username" validate:"required,min=3,max=32"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Password  string `json:"password,omitempty" validate:"required,min=8"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

type UserLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type OTPVerification struct {
	Username string `json:"username" validate:"required"`
	Code     string `json:"code" validate:"required,numeric"`
}

// UserToken is the JWT claim set carried in the session cookie.
// Role is required for status-transition authorization.
type UserToken struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.StandardClaims
}
