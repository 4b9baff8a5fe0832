package journal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"FrontierTown/internal/shared/metrics"
	"FrontierTown/internal/shared/serverconfig"
	"FrontierTown/internal/town/domain"
	"FrontierTown/modules/kit/tracex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSink struct {
	mu      sync.Mutex
	entries []Entry
	err     error
	closed  bool
}

func (s *memSink) Write(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

func (s *memSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type countingBroadcaster struct {
	mu    sync.Mutex
	types []string
}

func (b *countingBroadcaster) Broadcast(_ context.Context, typ string, _ any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.types = append(b.types, typ)
}

func TestRecorder_先广播再落流水(t *testing.T) {
	sink := &memSink{}
	next := &countingBroadcaster{}
	r := NewRecorder(next, sink, nil, nil)

	ctx := tracex.WithTraceID(context.Background(), "trace-1")
	r.Broadcast(ctx, domain.EventResourceUpdate, domain.ResourceUpdate{PlayerID: "p1", Gold: 10})
	r.Broadcast(ctx, domain.EventBattle, domain.Battle{ID: "b1", AttackerID: "p2", DefenderID: "p3"})
	require.NoError(t, r.Close(context.Background()))

	assert.Equal(t, []string{domain.EventResourceUpdate, domain.EventBattle}, next.types)
	require.Len(t, sink.entries, 2)
	assert.True(t, sink.closed)

	e := sink.entries[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, domain.EventResourceUpdate, e.Type)
	assert.Equal(t, "p1", e.PlayerID)
	assert.Equal(t, "trace-1", e.TraceID)
	assert.Contains(t, e.Payload, `"gold":10`)

	// 战斗记在攻方名下
	assert.Equal(t, "p2", sink.entries[1].PlayerID)
}

func TestRecorder_写失败不影响广播(t *testing.T) {
	sink := &memSink{err: errors.New("disk full")}
	next := &countingBroadcaster{}
	m := metrics.New()
	r := NewRecorder(next, sink, m, nil)

	r.Broadcast(context.Background(), domain.EventChat, domain.ChatMessage{PlayerID: "p1", Message: "hi"})
	require.NoError(t, r.Close(context.Background()))

	assert.Equal(t, []string{domain.EventChat}, next.types)
	assert.Empty(t, sink.entries)
}

func TestRecorder_关闭后只广播(t *testing.T) {
	sink := &memSink{}
	next := &countingBroadcaster{}
	r := NewRecorder(next, sink, nil, nil)
	require.NoError(t, r.Close(context.Background()))
	require.NoError(t, r.Close(context.Background()))

	r.Broadcast(context.Background(), domain.EventChat, domain.ChatMessage{PlayerID: "p1"})
	assert.Len(t, next.types, 1)
	assert.Empty(t, sink.entries)
}

func TestRecorder_关闭超时(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	r := NewRecorder(&countingBroadcaster{}, blockingSink{block}, nil, nil)
	r.Broadcast(context.Background(), domain.EventChat, domain.ChatMessage{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Close(ctx), context.DeadlineExceeded)
}

type blockingSink struct{ block chan struct{} }

func (s blockingSink) Write(ctx context.Context, _ Entry) error {
	select {
	case <-s.block:
	case <-ctx.Done():
	}
	return nil
}

func (blockingSink) Close(context.Context) error { return nil }

func TestOpen_按驱动选择(t *testing.T) {
	sink, err := Open(serverconfig.JournalConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, sink)

	_, err = Open(serverconfig.JournalConfig{Driver: "redis"}, nil)
	assert.Error(t, err)

	_, err = Open(serverconfig.JournalConfig{Driver: DriverMongo}, nil)
	assert.EqualError(t, err, "mongodb uri is empty")
}

func TestMySQLDSN(t *testing.T) {
	dsn := mysqlDSN(serverconfig.MySQLConfig{Host: "db", Port: 3306, User: "town", Password: "pw", DBName: "frontier"})
	assert.Equal(t, "town:pw@tcp(db:3306)/frontier?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}
