package actors

import (
	"FrontierTown/modules/kit/errx"
	"FrontierTown/modules/kit/logx"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// ManagerActor 只做路由：按 playerId 找到（或创建）对应的 PlayerActor 并转发，不执行业务。
type ManagerActor struct {
	log          logx.Logger
	playerActors map[string]*actor.PID // playerId -> actor.pid
}

func NewManagerActor(log logx.Logger) *ManagerActor {
	log = logx.OrNop(log)
	return &ManagerActor{
		log:          log,
		playerActors: make(map[string]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *Job:
		if msg == nil || msg.Fn == nil {
			ctx.Respond(&JobResult{Err: errx.ErrInternal.WithData("reason", "nil job")})
			return
		}
		if msg.PlayerID == "" {
			ctx.Respond(&JobResult{Err: errx.ErrReqParamERR.WithData("reason", "empty player_id")})
			return
		}
		// Forward 保留原始 sender，PlayerActor 直接回复给请求方的 future
		ctx.Forward(m.getOrSpawn(ctx, msg.PlayerID))
	case *actor.Terminated:
		for id, pid := range m.playerActors {
			if pid.Equal(msg.Who) {
				delete(m.playerActors, id)
				m.log.Warn("player actor terminated", zap.String("player_id", id))
				break
			}
		}
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, playerID string) *actor.PID {
	if pid, ok := m.playerActors[playerID]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewPlayerActor(playerID, m.log)
	})
	// ManagerActor 创建子 actor，子 actor 停止时会收到 Terminated
	pid := ctx.Spawn(props)
	m.playerActors[playerID] = pid
	return pid
}

// Children 当前已创建的玩家 actor 数量。
func (m *ManagerActor) Children() int {
	return len(m.playerActors)
}
