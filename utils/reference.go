package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strings"
)

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

const referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReferenceCode builds a booking reference like "BK-7F3K29QD".
// crypto/rand + big.Int avoids modulo bias on the charset.
func GenerateReferenceCode(prefix string, n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid reference length")
	}
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(referenceCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(referenceCharset[num.Int64()])
	}
	if prefix == "" {
		return sb.String(), nil
	}
	return prefix + "-" + sb.String(), nil
}
