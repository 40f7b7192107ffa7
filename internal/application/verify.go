// Package application contains the routing core: signature verification,
// event filtering, rate limiting, the reconciliation dispatcher, and the
// administrative command service.
package application

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyGitHubSignature checks an HMAC-SHA-256 webhook signature of the form
// "sha256=<hex>" against the raw request body. It fails closed on a missing
// or malformed header and uses a constant-time comparison. It must run
// before any parsing of the body.
func VerifyGitHubSignature(secret string, body []byte, signatureHeader string) bool {
	hexSig, ok := strings.CutPrefix(signatureHeader, "sha256=")
	if !ok {
		return false
	}

	expected, err := hex.DecodeString(hexSig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	computed := mac.Sum(nil)

	// hmac.Equal is constant time and length-safe.
	return hmac.Equal(computed, expected)
}

// VerifyInteractionSignature checks an Ed25519 signature over the
// concatenation of the timestamp header and the raw request body, against a
// hex-encoded public key. Malformed keys or signatures fail closed.
func VerifyInteractionSignature(publicKeyHex, timestamp string, body []byte, signatureHex string) bool {
	publicKey, err := hex.DecodeString(publicKeyHex)
	if err != nil || len(publicKey) != ed25519.PublicKeySize {
		return false
	}

	signature, err := hex.DecodeString(signatureHex)
	if err != nil || len(signature) != ed25519.SignatureSize {
		return false
	}

	message := make([]byte, 0, len(timestamp)+len(body))
	message = append(message, timestamp...)
	message = append(message, body...)

	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}
