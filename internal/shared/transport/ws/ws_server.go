package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"FrontierTown/modules/kit/errx"
	"FrontierTown/modules/kit/logx"
	"FrontierTown/modules/kit/tracex"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024

	defaultQueueSize = 256
)

// WsServer 是一条 websocket 连接：一个读循环、一个写循环，下行走有界队列。
type WsServer struct {
	id       string
	conn     *websocket.Conn
	router   *Router
	outChan  chan []byte
	property map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	ctx       context.Context
	log       logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, router *Router, queueSize int, l logx.Logger) *WsServer {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	l = logx.OrNop(l)
	id := uuid.NewString()
	// 连接级 trace：同一连接上的所有消息共用一个 trace_id
	ctx := tracex.WithTraceID(context.Background(), tracex.NewTraceID())
	return &WsServer{
		id:       id,
		conn:     wsConn,
		router:   router,
		outChan:  make(chan []byte, queueSize),
		property: make(map[string]any),
		done:     make(chan struct{}),
		ctx:      ctx,
		log:      l,
	}
}

func (s *WsServer) ID() string {
	return s.id
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

func (s *WsServer) Push(frame []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.outChan <- frame:
		return true
	default:
		s.log.Warn("ws_server outbound queue full, frame dropped",
			zap.String("conn_id", s.id), zap.String("player_id", PlayerIDOf(s)))
		return false
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if r := recover(); r != nil {
			err := errx.ErrInternal.WithCause(fmt.Errorf("panic: %v", r))
			logx.ReportSysErrorWithLoggerContext(s.ctx, s.log, logx.NewSysLog("ws_read_loop", err))
		}
		s.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.WithContext(s.ctx).Warn("ws_server read msg", zap.String("conn_id", s.id), zap.Error(err))
			}
			return
		}
		// 任何上行消息都视为存活
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
			s.log.WithContext(s.ctx).Info("ws_server malformed frame", zap.String("conn_id", s.id), zap.Int("size", len(data)))
			Send(s, ErrorMsg, ErrorFrame{Code: string(errx.CodeReqParamError), Message: "malformed message"})
			continue
		}

		if env.Type == HeartbeatMsg {
			s.Push(heartbeatReply(env.Data))
			continue
		}
		s.router.Dispatch(s.ctx, s, env)
	}
}

// heartbeatReply 原样带回 ctime，补上服务端时间（毫秒）。
func heartbeatReply(raw json.RawMessage) []byte {
	h := &Heartbeat{}
	var m map[string]any
	if len(raw) != 0 && json.Unmarshal(raw, &m) == nil {
		_ = mapstructure.WeakDecode(m, h)
	}
	h.STime = time.Now().UnixMilli()
	frame, _ := EncodeFrame(HeartbeatMsg, h)
	return frame
}

func (s *WsServer) writeMsgLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()
	for {
		select {
		case frame := <-s.outChan:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.log.WithContext(s.ctx).Warn("ws_server write msg", zap.String("conn_id", s.id), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

// Server 把 HTTP 请求升级为 websocket，并为每条连接启动 WsServer。
type Server struct {
	router    *Router
	upgrader  websocket.Upgrader
	queueSize int
	onOpen    []func(WSConn)
	log       logx.Logger
}

func NewServer(r *Router, queueSize int, l logx.Logger) *Server {
	l = logx.OrNop(l)
	return &Server{
		router:    r,
		queueSize: queueSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// 允许所有CORS跨域请求
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: l,
	}
}

// OnOpen 注册连接建立回调（session 注册、指标等）。
func (s *Server) OnOpen(fn func(WSConn)) {
	s.onOpen = append(s.onOpen, fn)
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.WithContext(req.Context()).Warn("websocket upgrade error", zap.Error(err))
		return
	}

	conn := NewWsServer(wsConn, s.router, s.queueSize, s.log)
	s.log.WithContext(conn.ctx).Info("websocket connected", zap.String("conn_id", conn.id), zap.String("addr", conn.Addr()))
	for _, fn := range s.onOpen {
		fn(conn)
	}
	conn.Run()
}
