// internal/utils/random.go
package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// File ini berisi penghasil data acak yang aman secara kriptografis,
// dipakai untuk invite token dan kode undangan grup khatam.

// charsetAlphanumeric adalah basis karakter GenerateRandomString.
// Karakter ambigu (0, O, 1, I, l) sengaja dihilangkan supaya token
// tetap terbaca saat dibagikan lewat chat.
const charsetAlphanumeric = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRandomString menghasilkan string acak sepanjang `length` dari
// charsetAlphanumeric, memakai crypto/rand sebagai sumber keacakan.
func GenerateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("random string length must be a positive integer, got %d", length)
	}

	resultBytes := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charsetAlphanumeric)))

	for i := range resultBytes {
		// rand.Int menghindari modulo bias yang muncul kalau memetakan
		// byte acak langsung ke indeks charset.
		randomIndex, err := rand.Int(rand.Reader, charsetLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate cryptographically secure random number: %w", err)
		}
		resultBytes[i] = charsetAlphanumeric[randomIndex.Int64()]
	}

	return string(resultBytes), nil
}

// GenerateRandomBytes menghasilkan `length` byte acak yang aman secara
// kriptografis (untuk secret key, salt, dsb).
func GenerateRandomBytes(length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("random byte length must be a positive integer, got %d", length)
	}

	randomBytes := make([]byte, length)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, fmt.Errorf("failed to read cryptographically secure random bytes: %w", err)
	}

	return randomBytes, nil
}

// GenerateRandomBase64String menghasilkan `numBytes` byte acak lalu
// meng-encode-nya dengan Base64 URL-safe tanpa padding, aman ditaruh
// di URL atau header HTTP.
func GenerateRandomBase64String(numBytes int) (string, error) {
	randomBytes, err := GenerateRandomBytes(numBytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(randomBytes), nil
}

// GenerateNumericCode menghasilkan string angka acak sepanjang `length`
// digit (boleh berawalan nol). Dipakai untuk kode undangan pendek yang
// mudah diketik atau dibacakan.
func GenerateNumericCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("numeric code length must be a positive integer, got %d", length)
	}

	const digits = "0123456789"
	resultBytes := make([]byte, length)
	digitCount := big.NewInt(int64(len(digits)))

	for i := range resultBytes {
		randomIndex, err := rand.Int(rand.Reader, digitCount)
		if err != nil {
			return "", fmt.Errorf("failed to generate cryptographically secure random number: %w", err)
		}
		resultBytes[i] = digits[randomIndex.Int64()]
	}

	return string(resultBytes), nil
}
