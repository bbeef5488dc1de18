// pkg/crypto/bcrypt.go

package crypto

import (
	cerr "github.com/cockroachdb/errors"
	"golang.org/x/crypto/bcrypt"
)

// BcryptMaxBytes is the longest input bcrypt accepts.
const BcryptMaxBytes = 72

// HashPassword returns a bcrypt hash of password, for handing a generated
// password to systems that store hashes. cost 0 means bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", cerr.Newf("bcrypt cost %d out of range %d..%d", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if len(password) > BcryptMaxBytes {
		return "", cerr.Newf("bcrypt hashes at most %d bytes", BcryptMaxBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", cerr.Wrap(err, "bcrypt hash failed")
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches hash.
func ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
