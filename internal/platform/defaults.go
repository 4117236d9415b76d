package platform

import (
	"golang.org/x/time/rate"

	config "github.com/maheshrc27/postflow/configs"
)

// DefaultRegistry wires the built-in adapters. Each platform gets one limiter
// shared by every adapter instance the factory produces.
func DefaultRegistry(cfg config.Platforms) *Registry {
	r := NewRegistry()
	r.Register(Twitter, NewTwitterFactory(cfg.TwitterAPI, limiter(cfg.TwitterRateLimit)))
	r.Register(Bluesky, NewBlueskyFactory(cfg.BlueskyPDS, limiter(cfg.BlueskyRateLimit)))
	if cfg.EnableDemo {
		r.Register(Demo, NewDemoFactory())
	}
	return r
}

func limiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}
