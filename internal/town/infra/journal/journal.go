package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"FrontierTown/internal/shared/metrics"
	"FrontierTown/internal/shared/serverconfig"
	"FrontierTown/internal/town/app"
	"FrontierTown/modules/kit/logx"
	"FrontierTown/modules/kit/tracex"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DriverNone  = ""
	DriverMongo = "mongo"
	DriverMySQL = "mysql"

	defaultQueue = 1024
)

// Entry 一条事件流水。Payload 为广播数据的 JSON 原文。
type Entry struct {
	ID       string    `json:"id" bson:"_id"`
	Type     string    `json:"type" bson:"type"`
	PlayerID string    `json:"playerId" bson:"player_id"`
	TraceID  string    `json:"traceId" bson:"trace_id"`
	Payload  string    `json:"payload" bson:"payload"`
	At       time.Time `json:"at" bson:"at"`
}

// Sink 只追加的流水存储。
type Sink interface {
	Write(ctx context.Context, e Entry) error
	Close(ctx context.Context) error
}

// Open 按配置打开流水存储；driver 为空时返回 nil，表示不记录。
func Open(cfg serverconfig.JournalConfig, log logx.Logger) (Sink, error) {
	switch cfg.Driver {
	case DriverNone:
		return nil, nil
	case DriverMongo:
		s, err := OpenMongo(cfg.MongoDB, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverMySQL:
		s, err := OpenMySQL(cfg.MySQL)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("journal: unknown driver %q", cfg.Driver)
	}
}

// Recorder 包在广播外面：先照常广播，再把事件异步写进流水。
// 流水写失败只记日志和指标，不影响玩家命令。
type Recorder struct {
	next    app.Broadcaster
	sink    Sink
	metrics *metrics.Metrics
	log     logx.Logger

	queue chan Entry
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewRecorder(next app.Broadcaster, sink Sink, m *metrics.Metrics, log logx.Logger) *Recorder {
	log = logx.OrNop(log)
	r := &Recorder{
		next:    next,
		sink:    sink,
		metrics: m,
		log:     log,
		queue:   make(chan Entry, defaultQueue),
	}
	r.wg.Add(1)
	go r.loop()
	return r
}

func (r *Recorder) Broadcast(ctx context.Context, eventType string, data any) {
	r.next.Broadcast(ctx, eventType, data)

	e, err := newEntry(ctx, eventType, data)
	if err != nil {
		r.fail(ctx, eventType, err)
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- e:
	default:
		r.fail(ctx, eventType, errors.New("journal queue full"))
	}
}

func (r *Recorder) loop() {
	defer r.wg.Done()
	for e := range r.queue {
		ctx, cancel := context.WithTimeout(tracex.WithTraceID(context.Background(), e.TraceID), 5*time.Second)
		if err := r.sink.Write(ctx, e); err != nil {
			r.fail(ctx, e.Type, err)
		}
		cancel()
	}
}

func (r *Recorder) fail(ctx context.Context, eventType string, err error) {
	if r.metrics != nil {
		r.metrics.JournalErrors.Inc()
	}
	r.log.WithContext(ctx).Warn("journal write failed", zap.String("type", eventType), zap.Error(err))
}

// Close 停止接收新事件，写完队列里剩余的流水后关闭存储。
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return r.sink.Close(ctx)
}

// subject 从各类事件里取出相关玩家：building/unit/resource/chat 用 playerId，战斗用攻方。
type subject struct {
	PlayerID   string `mapstructure:"playerId"`
	AttackerID string `mapstructure:"attackerId"`
}

func newEntry(ctx context.Context, eventType string, data any) (Entry, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Entry{}, err
	}
	var fields map[string]any
	var sub subject
	if json.Unmarshal(raw, &fields) == nil {
		if err := mapstructure.WeakDecode(fields, &sub); err != nil {
			return Entry{}, err
		}
	}
	playerID := sub.PlayerID
	if playerID == "" {
		playerID = sub.AttackerID
	}
	traceID, _ := tracex.TraceIDFrom(ctx)
	return Entry{
		ID:       uuid.NewString(),
		Type:     eventType,
		PlayerID: playerID,
		TraceID:  traceID,
		Payload:  string(raw),
		At:       time.Now(),
	}, nil
}
