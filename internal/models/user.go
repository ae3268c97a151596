package models

import (
	"strconv"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	Password    string `json:"-"` // Store hashed password, ignore for JSON serialization
	FirebaseUID string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
	Role        string `json:"role" gorm:"size:10;default:client;index"` // client, admin
	AvatarURL   string `json:"avatar_url,omitempty"`
	PushToken   string `json:"-" gorm:"index"` // FCM device token; cleared when FCM reports it terminal
}

// RecipientID is the key this user goes by in the Mongo-side stores
// (conversation participants, notification recipients).
func (u *User) RecipientID() string {
	if u.FirebaseUID != "" {
		return u.FirebaseUID
	}
	return strconv.FormatUint(uint64(u.ID), 10)
}

// AsParticipant converts the user into a conversation participant
func (u *User) AsParticipant() Participant {
	role := RoleClient
	if u.Role == string(RoleAdmin) {
		role = RoleAdmin
	}
	return Participant{
		UserID:    u.RecipientID(),
		Role:      role,
		FullName:  u.Name,
		AvatarURL: u.AvatarURL,
	}
}

type CreateLocalUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=client admin"`
}

type UpdatePushTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
