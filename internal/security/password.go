package security

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt hash. Hashing happens strictly here
// and in no mapping code, so a reordered call path can never persist plaintext.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
