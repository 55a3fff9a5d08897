package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is a member of the office staff.
type User struct {
	BaseUUIDModel
	Login        string  `gorm:"type:varchar(64);uniqueIndex;not null" json:"login"`
	DisplayName  string  `gorm:"type:varchar(255)"                     json:"displayName"`
	Email        *string `gorm:"type:varchar(255)"                     json:"email,omitempty"`
	PasswordHash string  `gorm:"type:varchar(255);not null"            json:"-"`
	IsAdmin      bool    `gorm:"type:boolean"                          json:"isAdmin"`

	// Password is hashed into PasswordHash on save and never stored.
	Password string `gorm:"-" json:"-"`
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Password == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.Password = ""
	return nil
}

func (u User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
