package platform

import (
	"testing"

	config "github.com/maheshrc27/postflow/configs"
	"github.com/stretchr/testify/assert"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry(config.Platforms{TwitterAPI: "https://api.x.com", BlueskyPDS: "https://bsky.social"})
	assert.Equal(t, []string{Bluesky, Twitter}, r.Platforms())

	r = DefaultRegistry(config.Platforms{EnableDemo: true, TwitterRateLimit: 5})
	assert.True(t, r.Has(Demo))
}

func TestLimiter_ZeroMeansUnlimited(t *testing.T) {
	assert.Equal(t, float64(limiter(0).Limit()), float64(limiter(-1).Limit()))
	assert.InDelta(t, 2.5, float64(limiter(2.5).Limit()), 1e-9)
}
