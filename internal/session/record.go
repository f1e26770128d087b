package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix = "scro:token:"
	userKeyPrefix  = "scro:user:"
)

var (
	// ErrNoRecord indicates the durable record is absent (either key
	// missing counts as absent; storage is left untouched).
	ErrNoRecord = errors.New("session: no durable record")
	// ErrMalformedRecord indicates the persisted user JSON did not
	// parse. The record pair is purged before this is returned.
	ErrMalformedRecord = errors.New("session: malformed durable record")
)

// RecordStore persists the durable session record in Redis: a token
// string and the user JSON under two keys sharing the record id. A
// record is only trustworthy when both keys are present and the user
// JSON parses.
type RecordStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecordStore constructs a RecordStore. ttl bounds the lifetime of
// both keys; zero means no expiry.
func NewRecordStore(client *redis.Client, ttl time.Duration) *RecordStore {
	return &RecordStore{client: client, ttl: ttl}
}

// Write persists the (token, user) pair. The token key is written
// first so a sweep can detect half-written pairs by a token without a
// matching user key.
func (rs *RecordStore) Write(ctx context.Context, id, token string, user *User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := rs.client.Set(ctx, tokenKeyPrefix+id, token, rs.ttl).Err(); err != nil {
		return err
	}
	return rs.client.Set(ctx, userKeyPrefix+id, data, rs.ttl).Err()
}

// Read loads the record. Returns ErrNoRecord when either key is
// missing. When the user JSON fails to parse both keys are purged and
// ErrMalformedRecord is returned.
func (rs *RecordStore) Read(ctx context.Context, id string) (string, *User, error) {
	token, err := rs.client.Get(ctx, tokenKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil, ErrNoRecord
		}
		return "", nil, err
	}
	payload, err := rs.client.Get(ctx, userKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil, ErrNoRecord
		}
		return "", nil, err
	}
	var user User
	if err := json.Unmarshal(payload, &user); err != nil {
		if purgeErr := rs.Purge(ctx, id); purgeErr != nil {
			return "", nil, purgeErr
		}
		return "", nil, ErrMalformedRecord
	}
	return token, &user, nil
}

// Purge removes both keys. Deleting missing keys is a no-op, so Purge
// is idempotent.
func (rs *RecordStore) Purge(ctx context.Context, id string) error {
	err := rs.client.Del(ctx, tokenKeyPrefix+id, userKeyPrefix+id).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// TTL exposes the configured record lifetime.
func (rs *RecordStore) TTL() time.Duration {
	return rs.ttl
}

// SweepOrphans deletes token keys whose user counterpart is gone and
// vice versa, restoring the both-or-neither invariant. Returns the
// number of keys removed.
func (rs *RecordStore) SweepOrphans(ctx context.Context) (int, error) {
	removed := 0
	for _, pair := range [][2]string{{tokenKeyPrefix, userKeyPrefix}, {userKeyPrefix, tokenKeyPrefix}} {
		iter := rs.client.Scan(ctx, 0, pair[0]+"*", 0).Iterator()
		for iter.Next(ctx) {
			key := iter.Val()
			id := key[len(pair[0]):]
			exists, err := rs.client.Exists(ctx, pair[1]+id).Result()
			if err != nil {
				return removed, err
			}
			if exists == 0 {
				if err := rs.client.Del(ctx, key).Err(); err != nil {
					return removed, err
				}
				removed++
			}
		}
		if err := iter.Err(); err != nil {
			return removed, err
		}
	}
	return removed, nil
}
