package password

import "golang.org/x/crypto/bcrypt"

// bcrypt cost factor. Raising it slows brute-force attempts at the price of
// login latency.
const cost = 12

// Hash returns the bcrypt hash of a plaintext password.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports whether the plaintext password matches the stored hash.
// It never returns an error: a malformed hash and a wrong password are both
// simply false.
func Compare(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
