package memory

import (
	"context"
	"sync"

	"FrontierTown/internal/town/domain"

	"github.com/google/uuid"
)

// Store 进程内权威状态：玩家/建筑/兵力按 id 索引，聊天与战斗按写入顺序追加。
// 进出都按值拷贝，调用方拿到的数据与内部状态互不影响。进程重启即丢失。
type Store struct {
	mu sync.RWMutex

	players     map[string]domain.Player
	playerOrder []string
	byUsername  map[string]string

	buildings     map[string]domain.Building
	buildingOrder []string

	units     map[string]domain.Unit
	unitOrder []string
	unitIndex map[unitKey]string

	chat    []domain.ChatMessage
	battles []domain.Battle

	newID func() string
}

type unitKey struct {
	playerID string
	unitType string
}

func NewStore() *Store {
	return &Store{
		players:    make(map[string]domain.Player),
		byUsername: make(map[string]string),
		buildings:  make(map[string]domain.Building),
		units:      make(map[string]domain.Unit),
		unitIndex:  make(map[unitKey]string),
		newID:      uuid.NewString,
	}
}

func (s *Store) GetPlayer(_ context.Context, id string) (domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound.WithData("player_id", id)
	}
	return p, nil
}

// FindOrCreatePlayer 查找与创建在同一把写锁内完成，同名并发提交只会创建一个玩家。
func (s *Store) FindOrCreatePlayer(_ context.Context, username string, start domain.Resources) (domain.Player, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byUsername[username]; ok {
		return s.players[id], false, nil
	}
	p := domain.NewPlayer(s.newID(), username, start)
	s.players[p.ID] = p
	s.byUsername[username] = p.ID
	s.playerOrder = append(s.playerOrder, p.ID)
	return p, true, nil
}

// UpdatePlayer 用户名不可修改，以已存储的为准。
func (s *Store) UpdatePlayer(_ context.Context, p domain.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.players[p.ID]
	if !ok {
		return domain.ErrPlayerNotFound.WithData("player_id", p.ID)
	}
	p.Username = old.Username
	s.players[p.ID] = p
	return nil
}

func (s *Store) ListPlayers(_ context.Context) ([]domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Player, 0, len(s.playerOrder))
	for _, id := range s.playerOrder {
		out = append(out, s.players[id])
	}
	return out, nil
}

func (s *Store) CreateBuilding(_ context.Context, b domain.Building) (domain.Building, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = s.newID()
	}
	b = cloneBuilding(b)
	s.buildings[b.ID] = b
	s.buildingOrder = append(s.buildingOrder, b.ID)
	return cloneBuilding(b), nil
}

func (s *Store) GetBuilding(_ context.Context, id string) (domain.Building, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buildings[id]
	if !ok {
		return domain.Building{}, domain.ErrNotFound.WithData("building_id", id)
	}
	return cloneBuilding(b), nil
}

func (s *Store) UpdateBuilding(_ context.Context, b domain.Building) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buildings[b.ID]; !ok {
		return domain.ErrNotFound.WithData("building_id", b.ID)
	}
	s.buildings[b.ID] = cloneBuilding(b)
	return nil
}

func (s *Store) ListBuildings(_ context.Context, playerID string) ([]domain.Building, error) {
	return s.filterBuildings(func(b domain.Building) bool { return b.PlayerID == playerID }), nil
}

func (s *Store) ListConstructing(_ context.Context) ([]domain.Building, error) {
	return s.filterBuildings(func(b domain.Building) bool { return b.IsConstructing }), nil
}

func (s *Store) filterBuildings(keep func(domain.Building) bool) []domain.Building {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Building{}
	for _, id := range s.buildingOrder {
		if b := s.buildings[id]; keep(b) {
			out = append(out, cloneBuilding(b))
		}
	}
	return out
}

func (s *Store) FindUnit(_ context.Context, playerID, unitType string) (domain.Unit, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.unitIndex[unitKey{playerID, unitType}]
	if !ok {
		return domain.Unit{}, false, nil
	}
	return s.units[id], true, nil
}

// SaveUnit 同一 (玩家, 兵种) 只保留一条记录：id 为空但已有记录时并入已有记录的 id。
func (s *Store) SaveUnit(_ context.Context, u domain.Unit) (domain.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := unitKey{u.PlayerID, u.Type}
	if existing, ok := s.unitIndex[key]; ok {
		u.ID = existing
	}
	if u.ID == "" {
		u.ID = s.newID()
		s.unitOrder = append(s.unitOrder, u.ID)
		s.unitIndex[key] = u.ID
	}
	s.units[u.ID] = u
	return u, nil
}

func (s *Store) ListUnits(_ context.Context, playerID string) ([]domain.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Unit{}
	for _, id := range s.unitOrder {
		if u := s.units[id]; u.PlayerID == playerID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Store) AppendChat(_ context.Context, m domain.ChatMessage) (domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = s.newID()
	}
	s.chat = append(s.chat, m)
	return m, nil
}

func (s *Store) RecentChat(_ context.Context, limit int) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		return []domain.ChatMessage{}, nil
	}
	from := max(0, len(s.chat)-limit)
	out := make([]domain.ChatMessage, len(s.chat)-from)
	copy(out, s.chat[from:])
	return out, nil
}

func (s *Store) AppendBattle(_ context.Context, b domain.Battle) (domain.Battle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = s.newID()
	}
	s.battles = append(s.battles, b)
	return b, nil
}

func (s *Store) ListBattles(_ context.Context, playerID string) ([]domain.Battle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Battle{}
	for _, b := range s.battles {
		if b.AttackerID == playerID || b.DefenderID == playerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func cloneBuilding(b domain.Building) domain.Building {
	if b.ConstructionEndsAt != nil {
		t := *b.ConstructionEndsAt
		b.ConstructionEndsAt = &t
	}
	return b
}
