// internal/models/admin.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type AdminUser struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Name         string     `json:"name" gorm:"size:128"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

func (u *AdminUser) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *AdminUser) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
