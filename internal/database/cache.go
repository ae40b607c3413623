package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// CacheBuilder assembles one cache operation:
//
//	NewCacheBuilder(client, id).WithStruct(v).WithTTL(ttl).WithContext(ctx).Set()
type CacheBuilder struct {
	client  CacheClient
	key     string
	prefix  string
	value   any
	ttl     time.Duration
	context context.Context
}

func NewCacheBuilder(client CacheClient, key any) *CacheBuilder {
	return &CacheBuilder{
		client:  client,
		key:     fmt.Sprint(key),
		context: context.Background(),
	}
}

func (b *CacheBuilder) WithPrefix(prefix string) *CacheBuilder {
	b.prefix = prefix
	return b
}

func (b *CacheBuilder) WithStruct(value any) *CacheBuilder {
	b.value = value
	return b
}

func (b *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	b.ttl = ttl
	return b
}

func (b *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	if ctx != nil {
		b.context = ctx
	}
	return b
}

func (b *CacheBuilder) Key() string {
	return b.prefix + b.key
}

func (b *CacheBuilder) Set() error {
	if b.client == nil {
		return errors.New("cache client is nil")
	}

	payload, err := json.Marshal(b.value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	key := b.Key()
	if b.ttl > 0 {
		seconds := int64(b.ttl / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		cmd := b.client.B().Set().Key(key).Value(string(payload)).ExSeconds(seconds).Build()
		return b.client.Do(b.context, cmd).Error()
	}

	cmd := b.client.B().Set().Key(key).Value(string(payload)).Build()
	return b.client.Do(b.context, cmd).Error()
}

// Get decodes the cached value into dest. A missing key is found=false, not an error.
func (b *CacheBuilder) Get(dest any) (bool, error) {
	if b.client == nil {
		return false, errors.New("cache client is nil")
	}

	cmd := b.client.B().Get().Key(b.Key()).Build()
	payload, err := b.client.Do(b.context, cmd).AsBytes()
	if valkey.IsValkeyNil(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return true, nil
}

func (b *CacheBuilder) Delete() error {
	if b.client == nil {
		return errors.New("cache client is nil")
	}

	cmd := b.client.B().Del().Key(b.Key()).Build()
	return b.client.Do(b.context, cmd).Error()
}
