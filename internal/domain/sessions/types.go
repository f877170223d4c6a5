package sessions

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultTTL is the sliding expiration window for guest sessions (604800s).
const DefaultTTL = 7 * 24 * time.Hour

type Session struct {
	ID        string    `json:"id"`
	CartID    string    `json:"cartId,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New builds a guest session with a fresh 7-day expiry.
func New(ipAddress, userAgent string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        newSessionID(),
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ExpiresAt: now.Add(DefaultTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// newSessionID returns 32 random bytes as lowercase hex (64 chars).
// The id doubles as a bearer token, so it has to come from a CSPRNG.
func newSessionID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("sessions: crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func (s *Session) Serialize() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	return string(data), nil
}

func Deserialize(data string) (*Session, error) {
	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}
