package actor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"FrontierTown/internal/town/actors"
	"FrontierTown/modules/kit/errx"
	"FrontierTown/modules/kit/logx"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 5 * time.Second

// Runtime 持有 actor 系统与 ManagerActor，对上层提供按玩家串行执行的入口。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
	closed  atomic.Bool
}

func NewRuntime(askTimeout time.Duration, log logx.Logger) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	/**
	ActorSystem 相当于运行时容器：管理 PID、调度、邮箱与系统消息。
	root context 是系统外部对 actor 的操作入口（Spawn / Send / Request / Stop）。
	*/
	system := protoactor.NewActorSystem()
	root := system.Root
	/**
	manager 只负责路由与维护 playerId -> PID，不干重活；
	每个玩家的 Job 由它派生的子 actor 执行。
	*/
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(log)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

// Do 把 fn 投递到 playerID 对应的 actor 执行并等待结果。
// 同一玩家的 fn 严格串行；fn 里不能再对同一玩家调用 Do，否则会一直等到超时。
func (r *Runtime) Do(ctx context.Context, playerID string, fn func(ctx context.Context) (any, error)) (any, error) {
	if r == nil || r.root == nil || r.closed.Load() {
		return nil, errx.ErrUnavailable.WithData("reason", "actor runtime not running")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, errx.ErrTimeout.WithCause(err)
	}

	job := &actors.Job{PlayerID: playerID, Ctx: ctx, Fn: fn}
	// 创建 futureProcess 作为 sender，发给 manager；等到回复或超时
	future := r.root.RequestFuture(r.manager, job, r.timeoutFromContext(ctx))
	res, err := future.Result()
	if err != nil {
		if errors.Is(err, protoactor.ErrTimeout) {
			return nil, errx.ErrTimeout.WithCause(err).WithData("player_id", playerID)
		}
		return nil, errx.ErrUnavailable.WithCause(err).WithData("player_id", playerID)
	}

	out, ok := res.(*actors.JobResult)
	if !ok || out == nil {
		return nil, errx.ErrInternal.WithData("reason", "unexpected actor reply")
	}
	return out.Value, out.Err
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

// Shutdown 停止 manager（连带所有玩家 actor）并关闭系统；之后的 Do 直接返回不可用。
func (r *Runtime) Shutdown() {
	if r == nil || !r.closed.CompareAndSwap(false, true) {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}
