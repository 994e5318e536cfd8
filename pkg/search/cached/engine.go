package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/matst80/slask-facets/pkg/search"
)

const keyPrefix = "facets:"

// Engine serves repeated queries from redis and passes everything else to
// the wrapped engine. Redis problems never fail a query.
type Engine struct {
	next   search.Engine
	client *redis.Client
	ttl    time.Duration
}

func NewEngine(next search.Engine, addr, password string, db int, ttl time.Duration) *Engine {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return WithClient(next, rdb, ttl)
}

func WithClient(next search.Engine, client *redis.Client, ttl time.Duration) *Engine {
	return &Engine{next: next, client: client, ttl: ttl}
}

// Key is the cache key of a query. Equal queries give equal keys.
func Key(q search.Query) (string, error) {
	data, err := sonic.ConfigStd.Marshal(q)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return keyPrefix + hex.EncodeToString(sum[:]), nil
}

func (c *Engine) Execute(ctx context.Context, q search.Query) (*search.RawResults, error) {
	key, err := Key(q)
	if err != nil {
		return c.next.Execute(ctx, q)
	}
	if res, ok := c.get(ctx, key); ok {
		return res, nil
	}
	res, err := c.next.Execute(ctx, q)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, res)
	return res, nil
}

func (c *Engine) get(ctx context.Context, key string) (*search.RawResults, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("facet cache get failed: %v", err)
		}
		return nil, false
	}
	var res search.RawResults
	if err := sonic.Unmarshal(data, &res); err != nil {
		log.Printf("facet cache entry %s unreadable: %v", key, err)
		return nil, false
	}
	return &res, true
}

func (c *Engine) set(ctx context.Context, key string, res *search.RawResults) {
	data, err := sonic.Marshal(res)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("facet cache set failed: %v", err)
	}
}

func (c *Engine) Close() error {
	return c.client.Close()
}
