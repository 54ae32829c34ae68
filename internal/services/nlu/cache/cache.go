// Package cache memoizes pipeline results keyed by the cleaned utterance
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"vaani/internal/platform/config"
	"vaani/internal/platform/logger"
	"vaani/internal/platform/store"
	"vaani/internal/services/nlu/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Kinds accepted by CORE_NLU_CACHE
const (
	KindNone  = "none"
	KindLRU   = "lru"
	KindRedis = "redis"
)

// Cache stores results; implementations are safe for concurrent use
type Cache interface {
	Get(ctx context.Context, key string) (domain.Result, bool)
	Put(ctx context.Context, key string, r domain.Result)
}

// Options select and size a cache
type Options struct {
	Kind string
	Size int
	TTL  time.Duration
}

// OptionsFromConfig reads CACHE, CACHE_SIZE and CACHE_TTL under cfg's prefix
func OptionsFromConfig(cfg config.Conf) Options {
	return Options{
		Kind: cfg.MayEnum("CACHE", KindLRU, KindNone, KindLRU, KindRedis),
		Size: cfg.MayInt("CACHE_SIZE", 4096),
		TTL:  cfg.MayDuration("CACHE_TTL", 10*time.Minute),
	}
}

// New builds the cache o asks for
// redis without a KV backend degrades to the in-process LRU
func New(o Options, kv store.KV, log logger.Logger) Cache {
	switch o.Kind {
	case KindNone:
		return Noop{}
	case KindRedis:
		if kv != nil {
			return NewKV(kv, o.TTL, log)
		}
		log.Warn().Msg("redis cache requested without a redis backend, using lru")
	}
	return NewLRU(o.Size, o.TTL)
}

// Noop never hits
type Noop struct{}

// Get always misses
func (Noop) Get(context.Context, string) (domain.Result, bool) { return domain.Result{}, false }

// Put drops r
func (Noop) Put(context.Context, string, domain.Result) {}

// LRU is an in-process size and age bounded cache
type LRU struct {
	c *expirable.LRU[string, domain.Result]
}

// NewLRU returns an LRU holding at most size entries for ttl; ttl <= 0 keeps entries until evicted
func NewLRU(size int, ttl time.Duration) *LRU {
	if size <= 0 {
		size = 1
	}
	if ttl < 0 {
		ttl = 0
	}
	return &LRU{c: expirable.NewLRU[string, domain.Result](size, nil, ttl)}
}

// Get returns the cached result for key
func (l *LRU) Get(_ context.Context, key string) (domain.Result, bool) { return l.c.Get(key) }

// Put caches r under key
func (l *LRU) Put(_ context.Context, key string, r domain.Result) { l.c.Add(key, r) }

// Len reports the number of live entries
func (l *LRU) Len() int { return l.c.Len() }

// KV shares results between replicas through redis
type KV struct {
	kv  store.KV
	ttl time.Duration
	log logger.Logger
}

const kvPrefix = "vaani:nlu:"

// NewKV wraps a KV backend
func NewKV(kv store.KV, ttl time.Duration, log logger.Logger) *KV {
	return &KV{kv: kv, ttl: ttl, log: log}
}

// Key hashes the utterance so keys stay short and free of user text
func Key(key string) string {
	sum := sha256.Sum256([]byte(key))
	return kvPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached result; backend errors count as misses
func (k *KV) Get(ctx context.Context, key string) (domain.Result, bool) {
	var r domain.Result
	b, err := k.kv.Get(ctx, Key(key))
	if err != nil {
		if !errors.Is(err, store.ErrMiss) {
			k.log.Warn().Err(err).Msg("nlu cache get failed")
		}
		return r, false
	}
	if err := json.Unmarshal(b, &r); err != nil {
		k.log.Warn().Err(err).Msg("nlu cache entry unreadable")
		return r, false
	}
	return r, true
}

// Put stores r; failures are logged only
func (k *KV) Put(ctx context.Context, key string, r domain.Result) {
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := k.kv.Set(ctx, Key(key), b, k.ttl); err != nil {
		k.log.Warn().Err(err).Msg("nlu cache put failed")
	}
}
