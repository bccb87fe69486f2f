package utils

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// dummyHash is a real bcrypt hash of an unguessable throwaway value. Login
// compares against it when no usable stored hash exists, so a request for a
// missing or passwordless account costs the same as a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// VerifyPasswordOrDummy behaves like VerifyPassword but always performs one
// bcrypt comparison. When hash is empty the comparison runs against
// dummyHash and the result is forced false.
func VerifyPasswordOrDummy(hash, plain string) bool {
	if hash == "" {
		bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plain))
		return false
	}
	return VerifyPassword(hash, plain)
}

var (
	passwordAllowed = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]+$`)
	hasUpper        = regexp.MustCompile(`[A-Z]`)
	hasLower        = regexp.MustCompile(`[a-z]`)
	hasDigit        = regexp.MustCompile(`\d`)
	hasSymbol       = regexp.MustCompile(`[@$!%*?&]`)
)

// ValidatePassword enforces the registration password policy: at least 8
// characters, one uppercase letter, one lowercase letter, one digit and one
// of @$!%*?&, with no characters outside that alphabet. Returns a
// client-safe description of the first violated rule.
func ValidatePassword(plain string) (bool, string) {
	if len(plain) < 8 {
		return false, "Password must be at least 8 characters long"
	}
	if !passwordAllowed.MatchString(plain) {
		return false, "Password may only contain letters, digits and @$!%*?&"
	}
	if !hasUpper.MatchString(plain) {
		return false, "Password must contain an uppercase letter"
	}
	if !hasLower.MatchString(plain) {
		return false, "Password must contain a lowercase letter"
	}
	if !hasDigit.MatchString(plain) {
		return false, "Password must contain a digit"
	}
	if !hasSymbol.MatchString(plain) {
		return false, "Password must contain one of @$!%*?&"
	}
	return true, ""
}
