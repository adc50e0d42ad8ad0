package rabbitmq_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type collectingSink struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func (s *collectingSink) Deliver(topic string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[topic] = append(s.messages[topic], body)
}

func (s *collectingSink) received(topic string) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages[topic]
}

type BroadcasterIntegrationTestSuite struct {
	suite.Suite
	ctx       context.Context
	container testcontainers.Container
	url       string
}

func TestBroadcasterIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(BroadcasterIntegrationTestSuite))
}

func (s *BroadcasterIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.13-alpine",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "5672/tcp")
	s.Require().NoError(err)
	s.url = fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port())
}

func (s *BroadcasterIntegrationTestSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(s.ctx))
	}
}

func (s *BroadcasterIntegrationTestSuite) TestRelayReceivesMatchingTopicsOnly() {
	t := s.T()
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	logger := slog.New(slog.DiscardHandler)
	b, err := rabbitmq.NewBroadcaster(ctx, s.url, "test.tracking", logger)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()
	assert.True(t, b.IsAlive())

	sink := &collectingSink{messages: make(map[string][][]byte)}
	relay := rabbitmq.NewRelay(b, "tracking.#", sink, logger)
	go relay.Run(ctx)

	// the relay queue is declared asynchronously; publish until it arrives
	require.Eventually(t, func() bool {
		require.NoError(t, b.Broadcast(ctx, "tracking.TRK1", map[string]string{"status": "assigned"}))
		return len(sink.received("tracking.TRK1")) > 0
	}, 20*time.Second, 200*time.Millisecond)

	require.NoError(t, b.Broadcast(ctx, "other.TRK1", map[string]string{"status": "ignored"}))
	require.NoError(t, b.Broadcast(ctx, "tracking.TRK2", map[string]string{"status": "picked_up"}))

	require.Eventually(t, func() bool {
		return len(sink.received("tracking.TRK2")) == 1
	}, 10*time.Second, 100*time.Millisecond)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(sink.received("tracking.TRK2")[0], &payload))
	assert.Equal(t, "picked_up", payload["status"])
	assert.Empty(t, sink.received("other.TRK1"))
}

func (s *BroadcasterIntegrationTestSuite) TestBroadcastAfterCloseFails() {
	t := s.T()
	b, err := rabbitmq.NewBroadcaster(s.ctx, s.url, "", slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	require.NoError(t, b.Close())

	err = b.Broadcast(s.ctx, "tracking.TRK1", map[string]string{})
	assert.ErrorIs(t, err, rabbitmq.ErrNotConnected)
}
