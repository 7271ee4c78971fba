// Package auth implements request authentication for Relay Core.
//
// Callers prove possession of the process-wide shared secret by sending a
// keyed hash of the request body:
//
//	Authorization: Bearer <hex(HMAC-SHA256(secret, raw_body))>
//
// The scheme transmits a proof, never the secret itself, and binds the proof
// to the exact body bytes: a captured token authorises only the one payload
// it was computed over.
//
// # Design Properties
//
//   - Fail-closed: Verify returns a bool, never an error. Any anomaly in the
//     header, scheme, or token resolves to false.
//   - Raw bytes: verification runs before JSON parsing, on the body exactly as
//     received. An authentication failure always takes precedence over a
//     body-format error.
//   - Constant-time: digest comparison uses hmac.Equal, so timing does not
//     leak the position of the first mismatching byte.
//   - Stateless and reentrant: no locking, safe for concurrent use.
package auth
