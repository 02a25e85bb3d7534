// Package model holds the test data used by the login cases.
package model

// User is a set of login credentials and the display name the app shows
// after a successful login.
type User struct {
	Username     string
	Password     string
	ExpectedName string // empty for users that cannot log in
}

var (
	// ValidUser is accepted by the login_success mapping.
	ValidUser = User{Username: "valid_user", Password: "valid_pass", ExpectedName: "Remi Chen"}

	// InvalidUser is rejected by the login_failure mapping.
	InvalidUser = User{Username: "invalid_user", Password: "wrong_pass"}
)

// String hides the password so users can be logged safely.
func (u User) String() string {
	return u.Username
}
