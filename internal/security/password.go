package security

import "golang.org/x/crypto/bcrypt"

// bcrypt work factor is fixed; bumping it only affects newly stored hashes.
const hashCost = 10

// HashPassword hashes a plain text password with bcrypt. Each call salts
// independently, so equal passwords never share a hash.
func HashPassword(plain string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)

	if err != nil {
		return nil, err
	}

	return hash, nil
}

// CheckPassword compares a stored bcrypt hash with a plaintext password. The
// comparison inside bcrypt is constant-time.
func CheckPassword(hash []byte, plain string) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain))
}
