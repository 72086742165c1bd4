package password

import "golang.org/x/crypto/bcrypt"

// Cost is deliberately above bcrypt.DefaultCost; login is rare enough that
// the extra work factor is affordable.
const Cost = 12

// Hash returns a salted bcrypt digest of the plaintext. Two calls with the
// same plaintext produce different digests.
func Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plain matches the stored digest.
func Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
