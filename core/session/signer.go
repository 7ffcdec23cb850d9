package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sign derives a deterministic hex-encoded HMAC-SHA256 tag from secret and message.
func Sign(secret []byte, message string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether tag is the valid signature of message under secret.
// The comparison runs in constant time regardless of where the tags differ.
func Verify(secret []byte, message, tag string) bool {
	expected := Sign(secret, message)
	return hmac.Equal([]byte(expected), []byte(tag))
}

// csrfMessage frames the CSRF tag input as "{session_id}-{created_at}".
// Binding the tag to both values means a captured session id alone cannot
// forge a tag, and rotating CreatedAt invalidates every previously issued tag.
// CreatedAt is rendered as unix seconds so the framing survives a storage
// round trip; records are created with second precision for the same reason.
func csrfMessage(id uuid.UUID, createdAt time.Time) string {
	return fmt.Sprintf("%s-%d", id, createdAt.Unix())
}
