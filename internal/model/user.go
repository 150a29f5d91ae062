// Package model defines database models
package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type User struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null" json:"name"`
	// Optional identity fields are pointers so that NULLs don't collide on the unique indexes
	Username    *string `gorm:"uniqueIndex" json:"username,omitempty"`
	Email       string  `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber *string `gorm:"uniqueIndex" json:"phone_number,omitempty"`
	Password    string  `gorm:"not null" json:"-"` // bcrypt hash, never plaintext
	Gender      *Gender `json:"gender,omitempty"`
	Role        Role    `gorm:"not null;default:user" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile is the public view of a user returned by /users/me
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
