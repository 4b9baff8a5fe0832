package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"FrontierTown/internal/shared/metrics"
	"FrontierTown/internal/shared/transport/ws"
	"FrontierTown/modules/kit/logx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id    string
	full  bool
	mu    sync.Mutex
	props map[string]any
	got   [][]byte
	done  chan struct{}
	once  sync.Once
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id, props: map[string]any{}, done: make(chan struct{})}
}

func (c *fakeConn) ID() string   { return c.id }
func (c *fakeConn) Addr() string { return "test:" + c.id }
func (c *fakeConn) SetProperty(k string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.props[k] = v
}
func (c *fakeConn) GetProperty(k string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.props[k]
}
func (c *fakeConn) RemoveProperty(k string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.props, k)
}
func (c *fakeConn) Push(frame []byte) bool {
	if c.full {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, frame)
	return true
}
func (c *fakeConn) Close()                { c.once.Do(func() { close(c.done) }) }
func (c *fakeConn) Done() <-chan struct{} { return c.done }

func (c *fakeConn) frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.got...)
}

func TestBroadcast_推给所有已绑定连接(t *testing.T) {
	r := NewConnectionRegistry(metrics.New(), logx.Nop())
	a, b, anon := newFakeConn("a"), newFakeConn("b"), newFakeConn("anon")
	r.Bind("p1", a)
	r.Bind("p2", b)
	r.Track(anon)

	r.Broadcast(context.Background(), "chat", map[string]any{"message": "howdy"})

	require.Len(t, a.frames(), 1)
	require.Len(t, b.frames(), 1)
	assert.Empty(t, anon.frames(), "未 identify 的连接收不到广播")

	var f struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(a.frames()[0], &f))
	assert.Equal(t, "chat", f.Type)
	assert.Equal(t, "howdy", f.Data["message"])
	assert.Equal(t, a.frames()[0], b.frames()[0], "只编码一次，各连接拿到同一帧")
}

func TestBroadcast_单条连接失败不影响其他(t *testing.T) {
	r := NewConnectionRegistry(nil, nil)
	bad, good := newFakeConn("bad"), newFakeConn("good")
	bad.full = true
	r.Bind("p1", bad)
	r.Bind("p2", good)

	r.Broadcast(context.Background(), "resource_update", map[string]any{"playerId": "p2"})

	assert.Len(t, good.frames(), 1)
}

func TestBind_同玩家新连接替换旧绑定(t *testing.T) {
	r := NewConnectionRegistry(nil, nil)
	old, cur := newFakeConn("old"), newFakeConn("new")
	r.Bind("p1", old)
	r.Bind("p1", cur)

	got, ok := r.GetConn("p1")
	require.True(t, ok)
	assert.Same(t, cur, got)
	_, ok = r.GetPlayerID(old)
	assert.False(t, ok)

	// 旧连接关闭不能误删新绑定
	old.Close()
	assert.Eventually(t, func() bool {
		r.RLock()
		defer r.RUnlock()
		_, w := r.watched[old]
		return !w
	}, time.Second, 5*time.Millisecond)
	_, ok = r.GetConn("p1")
	assert.True(t, ok)
}

func TestBind_同连接换绑玩家(t *testing.T) {
	r := NewConnectionRegistry(nil, nil)
	c := newFakeConn("c")
	r.Bind("p1", c)
	r.Bind("p2", c)

	_, ok := r.GetConn("p1")
	assert.False(t, ok)
	pid, ok := r.GetPlayerID(c)
	require.True(t, ok)
	assert.Equal(t, "p2", pid)
	assert.Equal(t, "p2", ws.PlayerIDOf(c))
	assert.Equal(t, 1, r.Online())
}

func TestWatcher_连接关闭自动解绑(t *testing.T) {
	r := NewConnectionRegistry(nil, nil)
	c := newFakeConn("c")
	r.Bind("p1", c)

	c.Close()

	assert.Eventually(t, func() bool { return r.Online() == 0 }, time.Second, 5*time.Millisecond)
}
