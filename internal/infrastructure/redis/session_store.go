package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

// SessionStore implements auth.SessionStore on Redis with per-user versioning:
// - Redis stores: rt:<sha256(token)> -> "<uid>:<ver>" with the refresh TTL
// - Redis stores: rtver:<uid> -> <ver> (integer, no TTL)
// - RemoveAll increments rtver:<uid>; membership checks require the token's
//   ver to equal the current rtver:<uid>
// Only the token digest is stored, never the token itself. Expiry is enforced
// twice: by the key TTL here and by the JWT expiry at verification.
type SessionStore struct {
	rdb *goredis.Client

	rtPrefix    string
	rtverPrefix string
}

func NewSessionStore(c *Client) *SessionStore {
	var rdb *goredis.Client
	if c != nil {
		rdb = c.rdb
	}
	return &SessionStore{
		rdb:         rdb,
		rtPrefix:    "rt:",
		rtverPrefix: "rtver:",
	}
}

func (s *SessionStore) Add(ctx context.Context, userID, token string, ttl time.Duration) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrMissingField("user_id")
	}
	if strings.TrimSpace(token) == "" {
		return domain.ErrMissingField("token")
	}
	if s.rdb == nil {
		return domain.ErrRedisUnavailable(errors.New("session store not configured"))
	}

	ver, err := s.getUserVer(ctx, userID)
	if err != nil {
		return err
	}

	val := fmt.Sprintf("%s:%d", userID, ver)
	if err := s.rdb.Set(ctx, s.rtPrefix+hashToken(token), val, ttl).Err(); err != nil {
		return domain.ErrRedisUnavailable(err)
	}
	return nil
}

func (s *SessionStore) Contains(ctx context.Context, userID, token string) (bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return false, nil
	}
	if s.rdb == nil {
		return false, domain.ErrRedisUnavailable(errors.New("session store not configured"))
	}

	val, err := s.rdb.Get(ctx, s.rtPrefix+hashToken(token)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, domain.ErrRedisUnavailable(err)
	}

	uid, tokVer, err := parseUIDVer(val)
	if err != nil || uid != userID {
		return false, nil
	}

	curVer, err := s.getUserVer(ctx, uid)
	if err != nil {
		return false, err
	}
	return tokVer == curVer, nil
}

func (s *SessionStore) Remove(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		// idempotent
		return nil
	}
	if s.rdb == nil {
		return domain.ErrRedisUnavailable(errors.New("session store not configured"))
	}
	if err := s.rdb.Del(ctx, s.rtPrefix+hashToken(token)).Err(); err != nil {
		return domain.ErrRedisUnavailable(err)
	}
	return nil
}

func (s *SessionStore) RemoveAll(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrMissingField("user_id")
	}
	if s.rdb == nil {
		return domain.ErrRedisUnavailable(errors.New("session store not configured"))
	}
	// bump version; all existing tokens with the old ver become invalid
	if err := s.rdb.Incr(ctx, s.rtverPrefix+userID).Err(); err != nil {
		return domain.ErrRedisUnavailable(err)
	}
	return nil
}

// ---- helpers ----

func (s *SessionStore) getUserVer(ctx context.Context, userID string) (int64, error) {
	key := s.rtverPrefix + userID

	v, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		n, perr := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if perr == nil {
			return n, nil
		}
		// fallthrough: treat parse error as 0 and repair
	} else if !errors.Is(err, goredis.Nil) {
		return 0, domain.ErrRedisUnavailable(err)
	}

	// default ver = 0; ensure it exists (SETNX keeps it stable)
	_ = s.rdb.SetNX(ctx, key, "0", 0).Err()
	return 0, nil
}

func parseUIDVer(s string) (uid string, ver int64, err error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 {
		return "", 0, fmt.Errorf("bad token val")
	}
	uid = s[:i]
	ver, err = strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return "", 0, err
	}
	return uid, ver, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
