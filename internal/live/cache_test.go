package live

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCacheGetSetRoundTrip(t *testing.T) {
	c := newTTLCache()
	c.set("k", "v", time.Minute)
	got, ok := c.get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestTTLCacheExpiresEntries(t *testing.T) {
	c := newTTLCache()
	c.set("k", "v", -time.Second)
	_, ok := c.get("k")
	assert.False(t, ok, "expected expired entry to be absent")
}

func TestTTLCacheMissingKey(t *testing.T) {
	c := newTTLCache()
	_, ok := c.get("missing")
	assert.False(t, ok)
}
