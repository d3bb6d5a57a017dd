// Package password provides one-way, salted, adaptive-cost password hashing.
package password

import "golang.org/x/crypto/bcrypt"

// Hash generates a bcrypt hash of the password. The cost parameter is encoded
// in the hash itself, so hashes produced under older cost settings keep
// verifying after a cost upgrade.
func Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify compares a plain password against a stored hash in constant time.
// A malformed hash verifies as false, never as an error.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
