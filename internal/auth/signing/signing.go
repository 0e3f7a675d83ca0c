// Package signing derives the per-request authentication headers the Wiro API
// expects: an API key, a millisecond nonce and an HMAC-SHA256 signature.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Names of the headers every signed request carries.
const (
	HeaderAPIKey    = "x-api-key"
	HeaderNonce     = "x-nonce"
	HeaderSignature = "x-signature"
)

// Credentials is the long-lived key pair issued for a Wiro project.
type Credentials struct {
	Key    string
	Secret string
}

// Validate reports whether both halves of the pair are present.
func (c Credentials) Validate() error {
	if c.Key == "" {
		return fmt.Errorf("API key not configured")
	}
	if c.Secret == "" {
		return fmt.Errorf("API secret not configured")
	}
	return nil
}

// String masks the secret so credentials can be logged safely.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Key: %s, Secret: %s}", c.Key, mask(c.Secret))
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}

// Headers is one signed header set. Timestamp is part of the signed message
// but is not transmitted.
type Headers struct {
	APIKey    string
	Nonce     string
	Timestamp string
	Signature string
}

// SignAt computes headers for an explicit instant.
func SignAt(key, secret string, nowMillis, nowSeconds int64) Headers {
	nonce := strconv.FormatInt(nowMillis, 10)
	timestamp := strconv.FormatInt(nowSeconds, 10)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(key + nonce + timestamp))

	return Headers{
		APIKey:    key,
		Nonce:     nonce,
		Timestamp: timestamp,
		Signature: hex.EncodeToString(mac.Sum(nil)),
	}
}

// Sign computes headers for the given wall-clock time.
func Sign(creds Credentials, now time.Time) Headers {
	return SignAt(creds.Key, creds.Secret, now.UnixMilli(), now.Unix())
}

// HTTPHeader returns the signed headers as a fresh http.Header.
func (h Headers) HTTPHeader() http.Header {
	hdr := make(http.Header, 3)
	hdr.Set(HeaderAPIKey, h.APIKey)
	hdr.Set(HeaderNonce, h.Nonce)
	hdr.Set(HeaderSignature, h.Signature)
	return hdr
}

// Signer produces a fresh header set for every outgoing request.
type Signer struct {
	creds Credentials
	now   func() time.Time
}

// NewSignerWithClock creates a signer. A nil clock reads the system time.
func NewSignerWithClock(creds Credentials, now func() time.Time) *Signer {
	if now == nil {
		now = time.Now
	}
	return &Signer{creds: creds, now: now}
}

// Headers signs the current instant. Never cache the result: the server
// rejects reused nonces.
func (s *Signer) Headers() Headers {
	return Sign(s.creds, s.now())
}
