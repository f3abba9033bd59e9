package securestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/zarlcorp/core/pkg/zcrypto"
)

const verifyToken = "zlemon-secure-store-ok"

// Redis is a Store that keeps AES-256-GCM sealed values in Redis.
// The salt and a password verification token live under the same prefix.
type Redis struct {
	client *redis.Client
	prefix string
	key    []byte
}

// OpenRedis opens or initializes an encrypted store under prefix.
// The returned store owns client and closes it on Close.
func OpenRedis(ctx context.Context, client *redis.Client, prefix string, password []byte) (*Redis, error) {
	r := &Redis{client: client, prefix: prefix}

	salt, err := r.readOrCreateSalt(ctx)
	if err != nil {
		return nil, fmt.Errorf("open redis store: %w", err)
	}

	key, _, err := zcrypto.DeriveKey(password, salt)
	if err != nil {
		return nil, fmt.Errorf("open redis store: derive key: %w", err)
	}

	if err := r.verifyOrCreateToken(ctx, key); err != nil {
		zcrypto.Erase(key)
		return nil, err
	}

	r.key = key
	return r, nil
}

// RedisInitialized reports whether a store already exists under prefix.
func RedisInitialized(ctx context.Context, client *redis.Client, prefix string) (bool, error) {
	n, err := client.Exists(ctx, prefix+":salt").Result()
	if err != nil {
		return false, fmt.Errorf("check redis store: %w", err)
	}
	return n > 0, nil
}

// Get decrypts and returns the value stored under key.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	ct, err := r.client.Get(ctx, r.valueKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}

	plain, err := zcrypto.Decrypt(r.key, ct)
	if err != nil {
		return "", fmt.Errorf("get %s: decrypt: %w", key, err)
	}
	return string(plain), nil
}

// Set encrypts value and stores it under key.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	ct, err := zcrypto.Encrypt(r.key, []byte(value))
	if err != nil {
		return fmt.Errorf("set %s: encrypt: %w", key, err)
	}

	if err := r.client.Set(ctx, r.valueKey(key), ct, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. DEL on a missing key is a no-op in Redis.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.valueKey(key)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close erases the key and closes the client.
func (r *Redis) Close() error {
	zcrypto.Erase(r.key)
	r.key = nil
	return r.client.Close()
}

func (r *Redis) valueKey(key string) string {
	return r.prefix + ":kv:" + key
}

func (r *Redis) readOrCreateSalt(ctx context.Context) ([]byte, error) {
	salt, err := r.client.Get(ctx, r.prefix+":salt").Bytes()
	if err == nil {
		return salt, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read salt: %w", err)
	}

	salt, err = zcrypto.RandBytes(zcrypto.SaltSize)
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	// SETNX so two first runs racing agree on one salt
	ok, err := r.client.SetNX(ctx, r.prefix+":salt", salt, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("write salt: %w", err)
	}
	if !ok {
		return r.client.Get(ctx, r.prefix+":salt").Bytes()
	}

	return salt, nil
}

func (r *Redis) verifyOrCreateToken(ctx context.Context, key []byte) error {
	ct, err := r.client.Get(ctx, r.prefix+":verify").Bytes()
	if errors.Is(err, redis.Nil) {
		// first run: create the verification token
		ct, err = zcrypto.Encrypt(key, []byte(verifyToken))
		if err != nil {
			return fmt.Errorf("encrypt verify token: %w", err)
		}
		if err := r.client.Set(ctx, r.prefix+":verify", ct, 0).Err(); err != nil {
			return fmt.Errorf("write verify token: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read verify token: %w", err)
	}

	plain, err := zcrypto.Decrypt(key, ct)
	if err != nil || string(plain) != verifyToken {
		return ErrWrongPassword
	}

	return nil
}
