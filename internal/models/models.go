package models

import (
	"time"

	"github.com/google/uuid"
)

type SocialLinks struct {
	Website   string `json:"website,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	X         string `json:"x,omitempty"`
	GitHub    string `json:"github,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

type User struct {
	ID           uint        `gorm:"primaryKey;autoIncrement"        json:"id"`
	Username     string      `gorm:"size:20;uniqueIndex;not null"    json:"username"`
	Email        string      `gorm:"size:50;uniqueIndex;not null"    json:"email"`
	PasswordHash string      `gorm:"not null"                        json:"-"`
	Role         string      `gorm:"size:10;not null;default:user"   json:"role"`
	Firstname    string      `gorm:"size:20"                         json:"firstname,omitempty"`
	Lastname     string      `gorm:"size:40"                         json:"lastname,omitempty"`
	SocialLinks  SocialLinks `gorm:"serializer:json"                 json:"socialLinks,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// RefreshToken is the revocation record for an issued refresh token.
// Token holds the sha256 hex of the signed string, never the string
// itself. A signed token with no matching record is not usable.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"              json:"id"`
	Token     string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	UserID    uint      `gorm:"index;not null"          json:"user_id"`
	ExpiresAt int64     `gorm:"not null"                json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type Release struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	Title       string    `gorm:"size:200;not null"             json:"title"`
	Description string    `gorm:"not null"                      json:"description"`
	Tags        []string  `gorm:"serializer:json"               json:"tags"`
	Status      string    `gorm:"size:10;not null;default:public;index" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	ReleasePublic  = "public"
	ReleasePrivate = "private"
)
