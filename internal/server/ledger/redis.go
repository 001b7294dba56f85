package ledger

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix      = "token:"
	userTokensKeyPrefix = "user-tokens:"

	// maxTxAttempts bounds optimistic-lock retries when another writer
	// touches the same user set between WATCH and EXEC.
	maxTxAttempts = 5
)

// RedisLedger keeps token:<token> -> user id with a TTL equal to the token's
// remaining lifetime, plus a user-tokens:<id> set indexing them per user.
// Expired entries vanish on their own.
type RedisLedger struct {
	rdb redis.UniversalClient
	now func() time.Time
}

func NewRedisLedger(rdb redis.UniversalClient) *RedisLedger {
	return &RedisLedger{rdb: rdb, now: time.Now}
}

func tokenKey(token string) string {
	return tokenKeyPrefix + token
}

func userTokensKey(userID int64) string {
	return userTokensKeyPrefix + strconv.FormatInt(userID, 10)
}

func (l *RedisLedger) Supersede(ctx context.Context, entry *models.IssuedToken) error {
	setKey := userTokensKey(entry.UserID)
	ttl := entry.ExpiresAt.Sub(l.now())
	if ttl < time.Millisecond {
		ttl = time.Millisecond
	}

	err := l.watch(ctx, setKey, func(tx *redis.Tx) error {
		old, err := tx.SMembers(ctx, setKey).Result()
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, t := range old {
				pipe.Del(ctx, tokenKey(t))
			}
			pipe.Del(ctx, setKey)
			pipe.Set(ctx, tokenKey(entry.Token), entry.UserID, ttl)
			pipe.SAdd(ctx, setKey, entry.Token)
			pipe.PExpire(ctx, setKey, ttl)
			return nil
		})
		return err
	})
	if err != nil {
		return storageErr(err)
	}
	return nil
}

func (l *RedisLedger) RevokeAll(ctx context.Context, userID int64) (int64, error) {
	setKey := userTokensKey(userID)

	var revoked int64
	err := l.watch(ctx, setKey, func(tx *redis.Tx) error {
		members, err := tx.SMembers(ctx, setKey).Result()
		if err != nil {
			return err
		}
		dels := make([]*redis.IntCmd, 0, len(members))
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, t := range members {
				dels = append(dels, pipe.Del(ctx, tokenKey(t)))
			}
			pipe.Del(ctx, setKey)
			return nil
		})
		if err != nil {
			return err
		}
		revoked = 0
		for _, c := range dels {
			revoked += c.Val()
		}
		return nil
	})
	if err != nil {
		return 0, storageErr(err)
	}
	return revoked, nil
}

func (l *RedisLedger) IsActive(ctx context.Context, token string) (bool, error) {
	n, err := l.rdb.Exists(ctx, tokenKey(token)).Result()
	if err != nil {
		return false, storageErr(err)
	}
	return n == 1, nil
}

// Sweep is a no-op: Redis expires keys itself.
func (l *RedisLedger) Sweep(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (l *RedisLedger) watch(ctx context.Context, key string, fn func(*redis.Tx) error) error {
	var err error
	for range maxTxAttempts {
		err = l.rdb.Watch(ctx, fn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}
