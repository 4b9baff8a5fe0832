package app

import (
	"context"
	"strings"
	"unicode/utf8"

	"FrontierTown/internal/shared/gameconfig/catalog"
	"FrontierTown/internal/town/domain"
	"FrontierTown/modules/kit/logx"

	"go.uber.org/zap"
)

// GameState 客户端首屏需要的全部数据。
type GameState struct {
	CurrentPlayer *domain.Player       `json:"currentPlayer"`
	Buildings     []domain.Building    `json:"buildings"`
	Units         []domain.Unit        `json:"units"`
	Leaderboard   []domain.Player      `json:"leaderboard"`
	ChatMessages  []domain.ChatMessage `json:"chatMessages"`
}

// CatalogView 数值表对外视图。
type CatalogView struct {
	Buildings []catalog.BuildingType `json:"buildings"`
	Units     []catalog.UnitType     `json:"units"`
	MapSize   int                    `json:"mapSize"`
}

// QueryService 玩家创建与各类只读查询。
type QueryService struct {
	store Store
	cat   *catalog.Catalog
	rules Rules
	log   logx.Logger
}

func NewQueryService(store Store, cat *catalog.Catalog, rules Rules, log logx.Logger) *QueryService {
	log = logx.OrNop(log)
	return &QueryService{store: store, cat: cat, rules: rules, log: log}
}

// CreatePlayer 按用户名取玩家，不存在则创建；重复提交同名返回同一玩家。
func (s *QueryService) CreatePlayer(ctx context.Context, username string) (domain.Player, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.Player{}, domain.Reject(domain.ReasonUsernameRequired)
	}
	if utf8.RuneCountInString(username) > MaxUsernameRunes {
		return domain.Player{}, domain.Reject(domain.ReasonUsernameTooLong).WithData("max_runes", MaxUsernameRunes)
	}
	p, created, err := s.store.FindOrCreatePlayer(ctx, username, s.rules.Start)
	if err != nil {
		return domain.Player{}, internalErr(err)
	}
	if created {
		s.log.WithContext(ctx).Info("player created", zap.String("player_id", p.ID), zap.String("username", p.Username))
	}
	return p, nil
}

func (s *QueryService) GetPlayer(ctx context.Context, id string) (domain.Player, error) {
	p, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return domain.Player{}, internalErr(err)
	}
	return p, nil
}

func (s *QueryService) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	ps, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, internalErr(err)
	}
	return ps, nil
}

func (s *QueryService) ListBuildings(ctx context.Context, playerID string) ([]domain.Building, error) {
	bs, err := s.store.ListBuildings(ctx, playerID)
	if err != nil {
		return nil, internalErr(err)
	}
	return bs, nil
}

func (s *QueryService) ListUnits(ctx context.Context, playerID string) ([]domain.Unit, error) {
	us, err := s.store.ListUnits(ctx, playerID)
	if err != nil {
		return nil, internalErr(err)
	}
	return us, nil
}

// Leaderboard 按分数降序，同分按创建顺序。
func (s *QueryService) Leaderboard(ctx context.Context) ([]domain.Player, error) {
	ps, err := s.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Leaderboard(ps), nil
}

// GameState playerID 为空或不存在时 currentPlayer 为 null，建筑与兵力为空列表。
func (s *QueryService) GameState(ctx context.Context, playerID string) (GameState, error) {
	st := GameState{
		Buildings: []domain.Building{},
		Units:     []domain.Unit{},
	}
	if playerID != "" {
		p, err := s.store.GetPlayer(ctx, playerID)
		switch {
		case err == nil:
			st.CurrentPlayer = &p
			if st.Buildings, err = s.ListBuildings(ctx, playerID); err != nil {
				return GameState{}, err
			}
			if st.Units, err = s.ListUnits(ctx, playerID); err != nil {
				return GameState{}, err
			}
		case isNotFound(err):
		default:
			return GameState{}, internalErr(err)
		}
	}

	var err error
	if st.Leaderboard, err = s.Leaderboard(ctx); err != nil {
		return GameState{}, err
	}
	if st.ChatMessages, err = s.store.RecentChat(ctx, s.rules.chatLimit(0)); err != nil {
		return GameState{}, internalErr(err)
	}
	return st, nil
}

func (s *QueryService) Catalog() CatalogView {
	return CatalogView{
		Buildings: s.cat.Buildings(),
		Units:     s.cat.Units(),
		MapSize:   s.cat.MapSize(),
	}
}
