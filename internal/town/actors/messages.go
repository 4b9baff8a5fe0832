package actors

import "context"

// Job 在某个玩家的 actor 里串行执行的一段状态变更。
type Job struct {
	PlayerID string
	Ctx      context.Context
	Fn       func(ctx context.Context) (any, error)
}

// JobResult 是 Job 的回复。
type JobResult struct {
	Value any
	Err   error
}
