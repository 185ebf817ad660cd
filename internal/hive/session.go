package hive

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/redwaysecurity/the-hive-mcp-server/internal/config"
)

// DefaultSessionTTL is how long a constructed client stays current before
// Get builds a replacement.
const DefaultSessionTTL = 300 * time.Second

// Factory constructs a client. The default factory reads HIVE_URL and
// HIVE_API_KEY at the moment of construction, so configuration changes
// between resets take effect.
type Factory func() (*Client, error)

// SessionCache owns one shared client handle with a time-to-live. Get
// returns the current handle, rebuilding it on first use, after a Reset, or
// once the TTL has elapsed. Requests already in flight on a superseded
// client complete normally; replacement only swaps the cached pointer.
type SessionCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	factory Factory
	now     func() time.Time

	client  *Client
	created time.Time
}

// SessionCacheOptions overrides cache behavior; zero values pick defaults.
// Tests inject Factory and Now to isolate construction and the clock.
type SessionCacheOptions struct {
	TTL     time.Duration
	Factory Factory
	Now     func() time.Time
}

func NewSessionCache(opts SessionCacheOptions) *SessionCache {
	c := &SessionCache{
		ttl:     opts.TTL,
		factory: opts.Factory,
		now:     opts.Now,
	}
	if c.ttl <= 0 {
		c.ttl = DefaultSessionTTL
	}
	if c.factory == nil {
		c.factory = envFactory
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

func envFactory() (*Client, error) {
	hiveURL, err := config.HiveURL()
	if err != nil {
		return nil, err
	}
	apiKey, err := config.HiveAPIKey()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("component", "session").Str("url", hiveURL).Msg("creating TheHive client")
	return NewClient(hiveURL, apiKey), nil
}

// Get returns the cached client, constructing one when absent or expired.
// A failed construction leaves the cache empty so the next call retries;
// the configuration error surfaces to the caller.
func (c *SessionCache) Get() (*Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.client != nil && now.Sub(c.created) <= c.ttl {
		return c.client, nil
	}

	client, err := c.factory()
	if err != nil {
		c.client = nil
		c.created = time.Time{}
		return nil, err
	}
	c.client = client
	c.created = now
	return client, nil
}

// Reset drops the cached client; the next Get reconstructs from the
// current environment. Used by tests and credential-rotation flows.
func (c *SessionCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = nil
	c.created = time.Time{}
}
