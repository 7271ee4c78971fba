package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// bearerPrefix is the literal scheme prefix the Authorization header must carry.
const bearerPrefix = "Bearer "

// Verify checks that the caller possesses the shared secret.
//
// The caller proves possession by sending the hex-encoded HMAC-SHA256 of the
// exact request body bytes, keyed with the shared secret:
//
//	Authorization: Bearer <hex(HMAC-SHA256(secret, rawBody))>
//
// Verification operates on the raw body bytes as received, before any JSON
// parsing or re-serialisation; the digest is sensitive to formatting, so the
// bytes must not be touched first.
//
// Verify never returns an error: every anomaly (missing header, wrong scheme,
// malformed token, length mismatch, digest mismatch) resolves to false. The
// digest comparison is constant-time via hmac.Equal, so response timing does
// not reveal how much of a candidate token was correct.
//
// Parameters:
//   - secret: The shared secret (never logged)
//   - rawBody: The exact request body bytes as received
//   - authorizationHeader: The Authorization header value, may be empty
//
// Returns:
//   - bool: true only on an exact digest match
func Verify(secret, rawBody []byte, authorizationHeader string) bool {
	if len(secret) == 0 {
		// Fail closed: a process without a secret authenticates nobody.
		return false
	}

	if !strings.HasPrefix(authorizationHeader, bearerPrefix) {
		return false
	}

	claimed, err := hex.DecodeString(authorizationHeader[len(bearerPrefix):])
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(rawBody)
	expected := mac.Sum(nil)

	// hmac.Equal compares in constant time. A length mismatch returns false
	// without revealing anything beyond the (public) digest length.
	return hmac.Equal(claimed, expected)
}

// Token computes the hex-encoded HMAC-SHA256 proof for a body.
//
// It is the inverse of Verify and exists for clients and tests:
//
//	req.Header.Set("Authorization", "Bearer "+auth.Token(secret, body))
func Token(secret, rawBody []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}
