//go:build e2e

package applicantinfra

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Abraxas-365/shortlist/recruitment/applicant"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestRedisQueue(t *testing.T) {
	suite.Run(t, new(RedisQueueTestSuite))
}

type RedisQueueTestSuite struct {
	suite.Suite
	client *redis.Client
	queue  *RedisQueue
}

func (s *RedisQueueTestSuite) SetupSuite() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	s.client = redis.NewClient(&redis.Options{Addr: addr})
	s.queue = NewRedisQueue(s.client, "shortlist:test:decompress")

	if err := s.queue.Ping(context.Background()); err != nil {
		s.T().Skipf("redis not reachable at %s: %v", addr, err)
	}
}

func (s *RedisQueueTestSuite) TearDownTest() {
	require.NoError(s.T(), s.queue.Clear(context.Background()))
}

func (s *RedisQueueTestSuite) TearDownSuite() {
	_ = s.client.Close()
}

func (s *RedisQueueTestSuite) TestFIFO() {
	t := s.T()
	ctx := context.Background()

	require.NoError(t, s.queue.Enqueue(ctx, applicant.DecompressRequest{ApplicantID: "rec1"}))
	require.NoError(t, s.queue.Enqueue(ctx, applicant.DecompressRequest{ApplicantID: "rec2"}))

	size, err := s.queue.Size(ctx)
	require.NoError(t, err)
	s.Equal(int64(2), size)

	first, err := s.queue.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	s.Equal("rec1", first.ApplicantID.String())
	s.False(first.RequestedAt.IsZero())

	second, err := s.queue.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	s.Equal("rec2", second.ApplicantID.String())
}

func (s *RedisQueueTestSuite) TestDequeueTimeout() {
	req, err := s.queue.Dequeue(context.Background(), 100*time.Millisecond)

	s.NoError(err)
	s.Nil(req)
}
