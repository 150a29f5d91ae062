package security

import (
	"crypto/rand"
	"math/big"
)

const OTPLength = 6

var ten = big.NewInt(10)

// GenerateOTP returns a uniformly random numeric code of OTPLength digits.
// Leading zeros are kept.
func GenerateOTP() (string, error) {
	b := make([]byte, OTPLength)

	for i := range b {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}

		b[i] = byte('0' + n.Int64())
	}

	return string(b), nil
}
