package actors

import (
	"context"
	"fmt"

	"FrontierTown/modules/kit/errx"
	"FrontierTown/modules/kit/logx"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type State int

const (
	None State = iota
	Online
	Stopping
	Offline
)

// PlayerActor 一个玩家一个 actor，邮箱保证同一玩家的 Job 依次执行。
// 状态本身在 Store 里，actor 不缓存实体。
type PlayerActor struct {
	state    State
	playerID string
	log      logx.Logger
	handled  uint64
}

func NewPlayerActor(playerID string, log logx.Logger) *PlayerActor {
	log = logx.OrNop(log)
	return &PlayerActor{
		state:    None,
		playerID: playerID,
		log:      log,
	}
}

func (p *PlayerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Online
	case *actor.Stopping:
		p.state = Stopping
	case *actor.Stopped:
		p.state = Offline
		p.log.Debug("player actor stopped", zap.String("player_id", p.playerID), zap.Uint64("handled", p.handled))
	case *Job:
		if p.state != Online {
			ctx.Respond(&JobResult{Err: errx.ErrUnavailable.WithData("player_id", p.playerID)})
			return
		}
		ctx.Respond(p.run(msg))
	}
}

// run 执行 Job；panic 转成系统错误回复，不让 actor 重启。
func (p *PlayerActor) run(job *Job) (res *JobResult) {
	p.handled++
	jobCtx := job.Ctx
	if jobCtx == nil {
		jobCtx = context.Background()
	}
	defer func() {
		if r := recover(); r != nil {
			err := errx.ErrInternal.WithCause(fmt.Errorf("panic: %v", r)).WithData("player_id", p.playerID)
			logx.ReportErrorWithLoggerContext(jobCtx, p.log, "player_job", err)
			res = &JobResult{Err: err}
		}
	}()
	if err := jobCtx.Err(); err != nil {
		return &JobResult{Err: errx.ErrTimeout.WithCause(err)}
	}
	v, err := job.Fn(jobCtx)
	return &JobResult{Value: v, Err: err}
}
