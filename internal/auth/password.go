package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost trades hashing time for brute-force resistance; 12 keeps a
// single hash in the tens of milliseconds on current hardware.
const bcryptCost = 12

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
