package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hymn-fly/pm-po-newsletter/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	mappings map[int]domain.TriggerMapping
	calls    int
}

func (s *countingSource) Get(_ context.Context, day int) (domain.TriggerMapping, error) {
	s.calls++
	m, ok := s.mappings[day]
	if !ok {
		return domain.TriggerMapping{}, fmt.Errorf("trigger mapping for day %d: %w", day, domain.ErrNotFound)
	}
	return m, nil
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func newSource() *countingSource {
	return &countingSource{mappings: map[int]domain.TriggerMapping{
		1: {ProgressDay: 1, AutomatedEmailExtID: "ae-1", TriggerExtID: "tr-1"},
		6: {ProgressDay: 6, AutomatedEmailExtID: "ae-adv", TriggerExtID: "tr-adv"},
	}}
}

func TestTriggerMappings_ReadThrough(t *testing.T) {
	mr, client := setupTestRedis(t)
	src := newSource()
	c := NewTriggerMappings(client, src, time.Minute, nil)
	ctx := context.Background()

	m, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ae-1", m.AutomatedEmailExtID)
	assert.Equal(t, 1, src.calls)
	assert.True(t, mr.Exists("email_trigger:1"))

	m, err = c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "tr-1", m.TriggerExtID)
	assert.Equal(t, 1, src.calls, "second lookup should be served from redis")

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls, "expired entry should reload from source")
}

func TestTriggerMappings_MissIsNotCached(t *testing.T) {
	mr, client := setupTestRedis(t)
	src := newSource()
	c := NewTriggerMappings(client, src, 0, nil)

	_, err := c.Get(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, mr.Exists("email_trigger:3"))

	_, err = c.Get(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, src.calls)
}

func TestTriggerMappings_RedisDownFallsThrough(t *testing.T) {
	mr, client := setupTestRedis(t)
	src := newSource()
	c := NewTriggerMappings(client, src, time.Minute, nil)

	mr.Close()

	m, err := c.Get(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, "ae-adv", m.AutomatedEmailExtID)
	assert.Equal(t, 1, src.calls)
}

func TestTriggerMappings_CorruptEntryReloads(t *testing.T) {
	mr, client := setupTestRedis(t)
	src := newSource()
	c := NewTriggerMappings(client, src, time.Minute, nil)

	require.NoError(t, mr.Set("email_trigger:1", "{not json"))

	m, err := c.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "ae-1", m.AutomatedEmailExtID)
	assert.Equal(t, 1, src.calls)
}

func TestTriggerMappings_Invalidate(t *testing.T) {
	mr, client := setupTestRedis(t)
	src := newSource()
	c := NewTriggerMappings(client, src, time.Minute, nil)
	ctx := context.Background()

	_, err := c.Get(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, 1))
	assert.False(t, mr.Exists("email_trigger:1"))

	_, err = c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestTriggerMappings_SourceErrorPropagates(t *testing.T) {
	_, client := setupTestRedis(t)
	boom := errors.New("db down")
	c := NewTriggerMappings(client, sourceFunc(func(context.Context, int) (domain.TriggerMapping, error) {
		return domain.TriggerMapping{}, boom
	}), time.Minute, nil)

	_, err := c.Get(context.Background(), 2)
	assert.ErrorIs(t, err, boom)
}

type sourceFunc func(context.Context, int) (domain.TriggerMapping, error)

func (f sourceFunc) Get(ctx context.Context, day int) (domain.TriggerMapping, error) { return f(ctx, day) }
