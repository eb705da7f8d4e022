package passhash

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Aim for ~150-300 ms per hash on production hardware.
const (
	DefaultIterations = 210_000
	SaltLen           = 16
	KeyLen            = 32
)

const encPrefix = "pbkdf2_sha256$"

var b64 = base64.RawStdEncoding

// HashPassword creates a salted PBKDF2-HMAC-SHA256 hash, returning an
// encoded string: pbkdf2_sha256$<iterations>$<saltB64>$<dkB64>
func HashPassword(password string) (string, error) {
	return HashPasswordWithIters(password, DefaultIterations)
}

func HashPasswordWithIters(password string, iterations int) (string, error) {
	if iterations <= 0 {
		return "", errors.New("iterations must be > 0")
	}
	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("rand.Read: %w", err)
	}

	dk := deriveKey([]byte(password), salt, iterations, KeyLen)
	enc := fmt.Sprintf("%s%d$%s$%s", encPrefix, iterations, b64.EncodeToString(salt), b64.EncodeToString(dk))
	zero(dk)
	return enc, nil
}

// VerifyPassword compares a plaintext password with an encoded PBKDF2
// hash in constant time.
func VerifyPassword(password, encoded string) (bool, error) {
	if !strings.HasPrefix(encoded, encPrefix) {
		return false, errors.New("unsupported hash format/prefix")
	}
	parts := strings.Split(encoded[len(encPrefix):], "$")
	if len(parts) != 3 {
		return false, errors.New("malformed hash")
	}

	iters, err := strconv.Atoi(parts[0])
	if err != nil || iters <= 0 {
		return false, errors.New("invalid iterations")
	}
	salt, err := b64.DecodeString(parts[1])
	if err != nil || len(salt) == 0 {
		return false, errors.New("invalid salt")
	}
	want, err := b64.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return false, errors.New("invalid derived key")
	}

	got := deriveKey([]byte(password), salt, iters, len(want))
	ok := subtle.ConstantTimeCompare(got, want) == 1
	zero(got)
	return ok, nil
}

// deriveKey implements PBKDF2 per RFC 8018 using HMAC-SHA256.
func deriveKey(password, salt []byte, iter, keyLen int) []byte {
	if iter <= 0 || keyLen <= 0 {
		return nil
	}
	blocks := (keyLen + sha256.Size - 1) / sha256.Size
	out := make([]byte, 0, blocks*sha256.Size)

	var idx [4]byte
	for i := 1; i <= blocks; i++ {
		binary.BigEndian.PutUint32(idx[:], uint32(i))

		u := hmacSum(password, append(salt, idx[:]...))
		t := append([]byte(nil), u...)
		for j := 1; j < iter; j++ {
			u = hmacSum(password, u)
			for k := range t {
				t[k] ^= u[k]
			}
		}
		out = append(out, t...)
		zero(t)
	}
	return out[:keyLen]
}

func hmacSum(key, data []byte) []byte {
	m := hmac.New(sha256.New, key)
	_, _ = m.Write(data)
	return m.Sum(nil)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
