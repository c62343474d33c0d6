package providers

import (
	"smd/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// cacheTestLogger is a no-op logger scoped to cache tests.
type cacheTestLogger struct{}

func (m *cacheTestLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Close()                                        {}

func cacheConfig(enabled bool, sizeMB int) *structures.Config {
	return &structures.Config{
		Cache: structures.CacheConfig{
			Enabled: enabled,
			Size:    sizeMB,
		},
		Aggregation: structures.AggregationConfig{
			CacheTTL: 5 * time.Minute,
		},
	}
}

func TestNewCacheProvider_Disabled(t *testing.T) {
	provider := NewCacheProvider(cacheConfig(false, 16), &cacheTestLogger{})
	assert.IsType(t, &noopCache{}, provider)

	provider.Set("key", []byte("value"))
	_, ok := provider.Get("key")
	assert.False(t, ok)
}

func TestNewCacheProvider_ZeroSize(t *testing.T) {
	provider := NewCacheProvider(cacheConfig(true, 0), &cacheTestLogger{})
	assert.IsType(t, &noopCache{}, provider)
}

func TestNewCacheProvider_Enabled(t *testing.T) {
	provider := NewCacheProvider(cacheConfig(true, 1), &cacheTestLogger{})
	assert.IsType(t, &CacheProvider{}, provider)
}

func TestCacheProvider_SetAndGet(t *testing.T) {
	provider := NewCacheProvider(cacheConfig(true, 1), &cacheTestLogger{})

	provider.Set("rows:0:7d:abc", []byte(`[{"accountName":"shop"}]`))

	val, ok := provider.Get("rows:0:7d:abc")
	assert.True(t, ok)
	assert.Equal(t, []byte(`[{"accountName":"shop"}]`), val)
}

func TestCacheProvider_Miss(t *testing.T) {
	provider := NewCacheProvider(cacheConfig(true, 1), &cacheTestLogger{})

	_, ok := provider.Get("missing")
	assert.False(t, ok)
}

func TestCacheProvider_Overwrite(t *testing.T) {
	provider := NewCacheProvider(cacheConfig(true, 1), &cacheTestLogger{})

	provider.Set("key", []byte("old"))
	provider.Set("key", []byte("new"))

	val, ok := provider.Get("key")
	assert.True(t, ok)
	assert.Equal(t, []byte("new"), val)
}

func TestUnsafeStringToBytes(t *testing.T) {
	assert.Nil(t, unsafeStringToBytes(""))
	assert.Equal(t, []byte("abc"), unsafeStringToBytes("abc"))
}
