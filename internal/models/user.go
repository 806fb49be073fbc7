package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// Role values stored on User and carried in JWT claims.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name"`
	Email       string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Role        string `json:"role" gorm:"size:20;default:member"`
	Password    string `json:"-"` // Store hashed password, ignore for JSON serialization
	DeviceToken string `json:"-"` // FCM registration token for push notifications
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateDeviceTokenRequest struct {
	DeviceToken string `json:"device_token" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
