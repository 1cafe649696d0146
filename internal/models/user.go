package models

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserType is a free-form account category. The constants are conventions, not an enumeration.
type UserType string

const (
	UserTypeStudent UserType = "student"
	UserTypeTeacher UserType = "teacher"
)

// User is a single account record held by the user manager.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Type         UserType  `json:"type"`
	CreatedAt    time.Time `json:"created_at"`
}

// CheckPassword reports whether plain matches the stored hash.
func (u User) CheckPassword(plain string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// String omits the password hash.
func (u User) String() string {
	return fmt.Sprintf("ID: %d, name: %s, type: %s", u.ID, u.Name, u.Type)
}
