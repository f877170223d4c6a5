package sessions

import (
	"context"
	"errors"
	"strings"
	"time"

	"pawmart/internal/kv"
)

const keyPrefix = "session:"

// Service owns the session lifecycle on top of an injected key-value store.
// "Not found" and "expired" both come back as a nil session with a nil
// error; real store failures are the only errors callers see.
type Service struct {
	store kv.Store
}

func NewService(store kv.Store) *Service {
	return &Service{store: store}
}

func sessionKey(id string) string { return keyPrefix + id }

func (s *Service) CreateSession(ctx context.Context, ipAddress, userAgent string) (*Session, error) {
	sess := New(ipAddress, userAgent)
	if err := s.persist(ctx, sess, DefaultTTL); err != nil {
		return nil, err
	}
	return sess, nil
}

// GetSession evicts lazily: a record whose expiresAt has passed is deleted
// on read even if the store's own TTL has not fired yet.
func (s *Service) GetSession(ctx context.Context, id string) (*Session, error) {
	data, err := s.store.Get(ctx, sessionKey(id))
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sess, err := Deserialize(data)
	if err != nil {
		return nil, err
	}

	if sess.IsExpired() {
		if err := s.DeleteSession(ctx, id); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return sess, nil
}

// UpdateSession re-persists with the TTL recomputed from the session's own
// expiresAt, keeping the store TTL and the entity field in lockstep.
func (s *Service) UpdateSession(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()
	return s.persist(ctx, sess, remainingTTL(sess.ExpiresAt))
}

func (s *Service) DeleteSession(ctx context.Context, id string) error {
	return s.store.Delete(ctx, sessionKey(id))
}

// ExtendSession re-issues the expiry days from now (the sliding "touch").
// Returns nil if the session is missing or already expired.
func (s *Service) ExtendSession(ctx context.Context, id string, days int) (*Session, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil || sess == nil {
		return nil, err
	}

	sess.ExpiresAt = time.Now().UTC().Add(time.Duration(days) * 24 * time.Hour)
	if err := s.UpdateSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// CleanupExpiredSessions sweeps every stored session and deletes the expired
// ones. Lazy eviction alone leaves stale keys until someone reads them, so
// both mechanisms run. Returns the number of sessions deleted.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int, error) {
	keys, err := s.store.Keys(ctx, keyPrefix)
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for _, key := range keys {
		data, err := s.store.Get(ctx, key)
		if errors.Is(err, kv.ErrKeyNotFound) {
			continue // expired between the scan and the read
		}
		if err != nil {
			return cleaned, err
		}

		sess, err := Deserialize(data)
		if err != nil {
			return cleaned, err
		}
		if sess.IsExpired() {
			if err := s.store.Delete(ctx, key); err != nil {
				return cleaned, err
			}
			cleaned++
		}
	}
	return cleaned, nil
}

func (s *Service) persist(ctx context.Context, sess *Session, ttl time.Duration) error {
	data, err := sess.Serialize()
	if err != nil {
		return err
	}
	return s.store.SetWithTTL(ctx, sessionKey(sess.ID), data, ttl)
}

// remainingTTL floors at one second so the store never sees a non-positive
// expiry.
func remainingTTL(expiresAt time.Time) time.Duration {
	secs := int64(time.Until(expiresAt) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}

// IsSessionID reports whether a string looks like a session id (64 lowercase
// hex chars). Lets the HTTP layer reject junk before touching the store.
func IsSessionID(id string) bool {
	if len(id) != 64 {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f')
	}) == -1
}
