package ws

import (
	"encoding/json"
)

// Envelope 是客户端上行的消息外壳：{"type": "...", "data": {...}}。
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Frame 是下行消息外壳，data 由调用方决定。
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ErrorFrame 是失败时回给发送方的 data。
type ErrorFrame struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type WsMsgReq struct {
	Type string
	Data json.RawMessage
	Conn WSConn
}

// WSConn 是一条客户端连接的抽象，session 与 handler 只依赖它。
type WSConn interface {
	ID() string
	SetProperty(key string, value any)
	GetProperty(key string) any
	RemoveProperty(key string)
	Addr() string
	// Push 投递一帧已编码好的消息，不阻塞；队列满或连接已关闭时返回 false。
	Push(frame []byte) bool
	Close()
	// Done 用于感知连接生命周期结束（连接关闭时该 channel 会被关闭）
	Done() <-chan struct{}
}

type Heartbeat struct {
	CTime int64 `json:"ctime" mapstructure:"ctime"`
	STime int64 `json:"stime" mapstructure:"stime"`
}

const (
	HeartbeatMsg = "heartbeat"
	ErrorMsg     = "error"

	// ConnKeyPlayerID identify 之后连接上绑定的玩家 id
	ConnKeyPlayerID = "playerId"
)

// EncodeFrame 把 {type, data} 编码成一帧文本消息。
func EncodeFrame(typ string, data any) ([]byte, error) {
	return json.Marshal(Frame{Type: typ, Data: data})
}

// Send 编码并投递给单条连接。
func Send(conn WSConn, typ string, data any) bool {
	if conn == nil {
		return false
	}
	frame, err := EncodeFrame(typ, data)
	if err != nil {
		return false
	}
	return conn.Push(frame)
}

// PlayerIDOf 读取连接上绑定的玩家 id。
func PlayerIDOf(conn WSConn) string {
	if conn == nil {
		return ""
	}
	id, _ := conn.GetProperty(ConnKeyPlayerID).(string)
	return id
}
