package model

import (
	"net/mail"
	"time"
	"unicode/utf8"

	"userhub/internal/common"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Username length bounds for registration.
const (
	MinUsernameLength = 4
	MaxUsernameLength = 15
)

// NationalityUnselected is the stored value when no nationality was chosen.
const NationalityUnselected = ""

// User is one registered identity. ID is assigned by the store at creation
// and never changes. The password hash is excluded from serialization.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Nationality  string    `json:"nationality"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin is the admin predicate used to gate the back-office.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAuthenticate reports whether this account may log in at all. Accounts
// with an empty stored hash (e.g. a half-seeded bootstrap row) fail closed.
func (u *User) CanAuthenticate() bool {
	return u.PasswordHash != ""
}

// View is the statically declared admin view-model. Exactly these fields
// may appear in back-office listings; the password hash cannot leak through
// it by construction.
type View struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Nationality string `json:"nationality"`
}

// View projects the user onto the admin view-model.
func (u *User) View() View {
	return View{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Nationality: u.Nationality,
	}
}

// ValidateRegistration checks the input shape of a registration request and
// returns a field-level validation error listing every violation at once.
func ValidateRegistration(username, email, password, nationality string) error {
	fields := make(map[string]string)

	// Length bounds count characters, not bytes, so non-ASCII names fit.
	if n := utf8.RuneCountInString(username); n < MinUsernameLength || n > MaxUsernameLength {
		fields["username"] = "username must be between 4 and 15 characters"
	}
	if password == "" {
		fields["password"] = "password is required"
	}
	if email == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "email address is not valid"
	}
	if nationality != NationalityUnselected && !ValidCountryCode(nationality) {
		fields["nationality"] = "nationality must be a known country code"
	}

	if len(fields) > 0 {
		return common.NewValidationError(fields)
	}
	return nil
}
