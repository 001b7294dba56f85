package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Column widths of the users table, in characters.
const (
	MaxUserNameLen = 100
	MaxEmailLen    = 100
)

// User is a row of the credential store. PasswordHash never leaves the
// server: use Public before handing a user to a caller.
type User struct {
	ID           int64
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PublicUser is the projection of User that is safe to return.
type PublicUser struct {
	ID       int64  `json:"id"`
	UserName string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, UserName: u.UserName, Email: u.Email}
}

// ValidIdentity reports whether userName and email fit the users table: valid
// UTF-8 without NUL bytes and no longer than the column widths.
func ValidIdentity(userName, email string) bool {
	return validColumn(userName, MaxUserNameLen) && validColumn(email, MaxEmailLen)
}

func validColumn(s string, max int) bool {
	return utf8.ValidString(s) &&
		!strings.ContainsRune(s, 0) &&
		utf8.RuneCountInString(s) <= max
}
