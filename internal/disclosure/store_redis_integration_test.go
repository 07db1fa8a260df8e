//go:build integration

package disclosure_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/jamesdigid/uport-mobile/internal/disclosure"
	"github.com/jamesdigid/uport-mobile/pkg/platform/sentinel"
	"github.com/jamesdigid/uport-mobile/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *disclosure.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = disclosure.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTripPreservesAllFields() {
	ctx := context.Background()
	authorized := true
	req := &disclosure.Request{
		ID:                "14819973",
		Target:            "0xroot",
		Account:           "0xappacct",
		AccountAuthorized: &authorized,
		ClientID:          "0x012",
		Network:           "0x4",
		CallbackURL:       "https://testapp.uport.me/callback",
		ActType:           disclosure.ActSegregated,
		Requested:         []string{"name", "phone"},
		Req:               "raw.request.token",
	}

	s.Require().NoError(s.store.Save(ctx, req))

	got, err := s.store.Get(ctx, "14819973")
	s.Require().NoError(err)
	s.Equal(req, got)
}

func (s *RedisStoreSuite) TestGetUnknownIDIsNotFound() {
	_, err := s.store.Get(context.Background(), "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestDeleteConsumesRequest() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, &disclosure.Request{ID: "14819973"}))
	s.Require().NoError(s.store.Delete(ctx, "14819973"))

	_, err := s.store.Get(ctx, "14819973")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestPendingRequestsExpire() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, &disclosure.Request{ID: "14819973"}))

	ttl, err := s.redis.Client.TTL(ctx, "uport:requests:14819973").Result()
	s.Require().NoError(err)
	s.Positive(ttl)
}
