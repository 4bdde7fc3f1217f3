//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	platformredis "prooflayer/internal/platform/redis"
	"prooflayer/pkg/testutil/containers"
)

type JSONCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *platformredis.JSONCache
}

func TestJSONCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(JSONCacheSuite))
}

func (s *JSONCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = platformredis.NewJSONCache(s.redis.Client, "test", time.Minute)
}

func (s *JSONCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (s *JSONCacheSuite) TestRoundTrip() {
	ctx := context.Background()

	s.Run("miss before set", func() {
		var got payload
		s.ErrorIs(s.cache.Get(ctx, "k", &got), platformredis.ErrCacheMiss)
	})

	s.Run("get after set", func() {
		s.Require().NoError(s.cache.Set(ctx, "k", payload{Name: "a", Count: 2}))
		var got payload
		s.Require().NoError(s.cache.Get(ctx, "k", &got))
		s.Equal(payload{Name: "a", Count: 2}, got)
	})

	s.Run("delete evicts", func() {
		s.Require().NoError(s.cache.Delete(ctx, "k", "absent"))
		var got payload
		s.ErrorIs(s.cache.Get(ctx, "k", &got), platformredis.ErrCacheMiss)
	})
}
