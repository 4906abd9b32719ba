package users

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Table is the backend's custom application-user table.
const Table = "AX_ADT_USERS"

// RoleType represents an application-level user role stored on the record.
type RoleType string

const (
	RoleAdmin RoleType = "ADMIN"
	RoleUser  RoleType = "USER"
)

// Record is the wire shape of one row in the custom user table. Field names
// carry the backend's exact casing and must not be transformed.
type Record struct {
	Code         string `json:"Code,omitempty"`
	Name         string `json:"Name,omitempty"`
	Email        string `json:"U_Email,omitempty"`
	FirstName    string `json:"U_FirstName,omitempty"`
	LastName     string `json:"U_LastName,omitempty"`
	PasswordHash string `json:"U_Password,omitempty"`
	Role         string `json:"U_Role,omitempty"`
	Active       string `json:"U_Active,omitempty"` // "Y" or "N"
}

// User is the application view of a user record. The password hash never
// leaves this package.
type User struct {
	Code      string   `json:"code,omitempty"`
	Email     string   `json:"email,omitempty"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Role      RoleType `json:"role,omitempty"`
	Active    bool     `json:"active"`
}

func fromRecord(r Record) User {
	return User{
		Code:      r.Code,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      RoleType(r.Role),
		Active:    r.Active == "Y",
	}
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
