package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"FrontierTown/internal/shared/gameconfig/catalog"
	"FrontierTown/internal/town/infra/memory"
	"FrontierTown/modules/kit/errx"
)

// fakeClock 手动推进的时钟，Advance 时同步触发到期的定时器。
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.fn()
	}
}

type event struct {
	Type string
	Data any
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []event
}

func (b *recordingBroadcaster) Broadcast(_ context.Context, typ string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event{Type: typ, Data: data})
}

func (b *recordingBroadcaster) ofType(typ string) []event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []event
	for _, e := range b.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// inlineSerializer 每个玩家一把锁，在调用方 goroutine 里直接执行。
type inlineSerializer struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (s *inlineSerializer) Do(ctx context.Context, playerID string, fn func(ctx context.Context) (any, error)) (any, error) {
	s.mu.Lock()
	if s.locks == nil {
		s.locks = make(map[string]*sync.Mutex)
	}
	l, ok := s.locks[playerID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[playerID] = l
	}
	s.mu.Unlock()

	l.Lock()
	defer l.Unlock()
	return fn(ctx)
}

type world struct {
	store   *memory.Store
	cat     *catalog.Catalog
	clock   *fakeClock
	bc      *recordingBroadcaster
	serial  Serializer
	rules   Rules
	sched   *ConstructionScheduler
	economy *EconomyService
	ticker  *ProductionTicker
	chat    *ChatService
	battle  *BattleService
	query   *QueryService
}

func newWorld(rules Rules) *world {
	return newWorldWith(rules, catalog.Default(), &inlineSerializer{})
}

// newWorldWith 指定数值表与串行器组装全部服务，时钟仍是假时钟。
func newWorldWith(rules Rules, cat *catalog.Catalog, serial Serializer) *world {
	w := &world{
		store:  memory.NewStore(),
		cat:    cat,
		clock:  newFakeClock(),
		bc:     &recordingBroadcaster{},
		serial: serial,
		rules:  rules,
	}
	w.sched = NewConstructionScheduler(w.store, w.serial, w.bc, w.clock, nil, nil)
	w.economy = NewEconomyService(w.store, w.cat, w.serial, w.sched, w.bc, w.clock, nil, nil)
	w.ticker = NewProductionTicker(w.store, w.cat, w.serial, w.bc, time.Minute, nil, nil)
	w.chat = NewChatService(w.store, w.bc, w.clock, rules, nil, nil)
	w.battle = NewBattleService(w.store, w.cat, w.bc, w.clock, rules, nil, nil)
	w.query = NewQueryService(w.store, w.cat, rules, nil)
	return w
}

// lateSerializer 模拟调用方等待超时：立即返回超时错误，任务留到 runPending 时才执行。
type lateSerializer struct {
	mu      sync.Mutex
	pending []func()
}

func (s *lateSerializer) Do(ctx context.Context, _ string, fn func(ctx context.Context) (any, error)) (any, error) {
	s.mu.Lock()
	s.pending = append(s.pending, func() { _, _ = fn(ctx) })
	s.mu.Unlock()
	return nil, errx.ErrTimeout
}

func (s *lateSerializer) runPending() int {
	s.mu.Lock()
	jobs := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, j := range jobs {
		j()
	}
	return len(jobs)
}
