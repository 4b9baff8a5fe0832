package session

import (
	"context"
	"sync"

	"FrontierTown/internal/shared/metrics"
	"FrontierTown/internal/shared/transport/ws"
	"FrontierTown/modules/kit/logx"

	"go.uber.org/zap"
)

// ConnectionRegistry 维护 玩家 <-> 连接 的绑定，并负责把事件广播给所有已绑定的连接。
// 一个玩家同一时刻只对应一条连接，后 identify 的连接替换先前的绑定。
type ConnectionRegistry struct {
	sync.RWMutex
	pid2conn map[string]ws.WSConn
	conn2pid map[ws.WSConn]string
	watched  map[ws.WSConn]struct{}

	metrics *metrics.Metrics
	log     logx.Logger
}

func NewConnectionRegistry(m *metrics.Metrics, l logx.Logger) *ConnectionRegistry {
	l = logx.OrNop(l)
	return &ConnectionRegistry{
		pid2conn: make(map[string]ws.WSConn),
		conn2pid: make(map[ws.WSConn]string),
		watched:  make(map[ws.WSConn]struct{}),
		metrics:  m,
		log:      l,
	}
}

// Track 登记一条新连接：只启动一次 watcher，连接关闭后自动解绑。
func (r *ConnectionRegistry) Track(conn ws.WSConn) {
	if conn == nil {
		return
	}
	r.Lock()
	defer r.Unlock()
	r.trackLocked(conn)
}

func (r *ConnectionRegistry) trackLocked(conn ws.WSConn) {
	if _, ok := r.watched[conn]; ok {
		return
	}
	r.watched[conn] = struct{}{}
	if r.metrics != nil {
		r.metrics.Connections.Inc()
	}
	go r.watchConnDone(conn)
}

func (r *ConnectionRegistry) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	r.Lock()
	_, tracked := r.watched[conn]
	delete(r.watched, conn)
	r.unbindLocked(conn)
	r.Unlock()
	if tracked && r.metrics != nil {
		r.metrics.Connections.Dec()
	}
}

// Bind 把连接绑定到玩家。同一连接换绑时先解除旧绑定。
func (r *ConnectionRegistry) Bind(playerID string, conn ws.WSConn) {
	if conn == nil || playerID == "" {
		return
	}
	r.Lock()
	defer r.Unlock()
	r.trackLocked(conn)

	if prev, ok := r.conn2pid[conn]; ok && prev != playerID && r.pid2conn[prev] == conn {
		delete(r.pid2conn, prev)
	}
	if old := r.pid2conn[playerID]; old != nil && old != conn {
		delete(r.conn2pid, old)
	}
	r.pid2conn[playerID] = conn
	r.conn2pid[conn] = playerID
	conn.SetProperty(ws.ConnKeyPlayerID, playerID)
}

func (r *ConnectionRegistry) UnbindConn(conn ws.WSConn) {
	r.Lock()
	defer r.Unlock()
	r.unbindLocked(conn)
}

func (r *ConnectionRegistry) unbindLocked(conn ws.WSConn) {
	pid, ok := r.conn2pid[conn]
	delete(r.conn2pid, conn)
	if ok && r.pid2conn[pid] == conn {
		delete(r.pid2conn, pid)
	}
}

func (r *ConnectionRegistry) GetConn(playerID string) (ws.WSConn, bool) {
	r.RLock()
	defer r.RUnlock()
	conn, ok := r.pid2conn[playerID]
	return conn, ok
}

func (r *ConnectionRegistry) GetPlayerID(conn ws.WSConn) (string, bool) {
	r.RLock()
	defer r.RUnlock()
	pid, ok := r.conn2pid[conn]
	return pid, ok
}

// Online 当前已绑定玩家数。
func (r *ConnectionRegistry) Online() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.pid2conn)
}

// Broadcast 编码一次，推给每条已绑定的连接；单条连接失败不影响其他连接，也不重试。
func (r *ConnectionRegistry) Broadcast(ctx context.Context, typ string, data any) {
	frame, err := ws.EncodeFrame(typ, data)
	if err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, r.log, logx.NewSysLog("broadcast_encode", err), zap.String("event", typ))
		return
	}

	r.RLock()
	conns := make([]ws.WSConn, 0, len(r.pid2conn))
	for _, c := range r.pid2conn {
		conns = append(conns, c)
	}
	r.RUnlock()

	dropped := 0
	for _, c := range conns {
		if !c.Push(frame) {
			dropped++
		}
	}
	if r.metrics != nil {
		r.metrics.Broadcasts.WithLabelValues(typ).Inc()
		r.metrics.BroadcastDrops.Add(float64(dropped))
	}
	r.log.WithContext(ctx).Debug("broadcast",
		zap.String("event", typ), zap.Int("receivers", len(conns)), zap.Int("dropped", dropped))
}
