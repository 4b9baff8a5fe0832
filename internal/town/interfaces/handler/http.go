package handler

import (
	"context"
	nethttp "net/http"
	"strconv"

	"FrontierTown/internal/shared/transport"
	"FrontierTown/internal/town/app"
	"FrontierTown/internal/town/domain"
	"FrontierTown/internal/town/interfaces/handler/dto"
	"FrontierTown/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type HttpHandler struct {
	town *Town
	log  logx.Logger
}

func NewHttpHandler(t *Town, log logx.Logger) *HttpHandler {
	log = logx.OrNop(log)
	return &HttpHandler{town: t, log: log}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	api := group.Group("/api")

	api.POST("/players", h.CreatePlayer)
	api.GET("/players", h.ListPlayers)
	api.GET("/players/:id", h.GetPlayer)

	api.POST("/buildings", h.CreateBuilding)
	api.GET("/buildings/:playerId", h.ListBuildings)

	api.POST("/units", h.CreateUnit)
	api.GET("/units/:playerId", h.ListUnits)

	api.GET("/chat", h.RecentChat)
	api.GET("/game/state", h.GameState)

	api.POST("/battles", h.CreateBattle)
	api.GET("/battles/:playerId", h.ListBattles)

	api.GET("/catalog", h.Catalog)
}

func (h *HttpHandler) CreatePlayer(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.CreatePlayerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.error(ctx, c, domain.Validation("invalid player payload").WithReason(domain.ReasonInvalidPayload).WithCause(err))
		return
	}
	p, err := h.town.Query.CreatePlayer(ctx, req.Username)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	transport.SetPlayerID(ctx, p.ID)
	h.ok(ctx, c, p)
}

func (h *HttpHandler) ListPlayers(c *gin.Context) {
	ctx := c.Request.Context()
	ps, err := h.town.Query.ListPlayers(ctx)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(ctx, c, ps)
}

func (h *HttpHandler) GetPlayer(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	transport.SetPlayerID(ctx, id)
	p, err := h.town.Query.GetPlayer(ctx, id)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(ctx, c, p)
}

func (h *HttpHandler) CreateBuilding(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.CreateBuildingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.error(ctx, c, domain.Validation("invalid building payload").WithReason(domain.ReasonInvalidPayload).WithCause(err))
		return
	}
	transport.SetPlayerID(ctx, req.PlayerID)
	b, err := h.town.Economy.Build(ctx, app.BuildCmd{
		PlayerID: req.PlayerID,
		Type:     req.Type,
		PosX:     req.PosX,
		PosY:     req.PosY,
	})
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(ctx, c, b)
}

func (h *HttpHandler) ListBuildings(c *gin.Context) {
	ctx := c.Request.Context()
	bs, err := h.town.Query.ListBuildings(ctx, c.Param("playerId"))
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(ctx, c, bs)
}

func (h *HttpHandler) CreateUnit(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.CreateUnitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.error(ctx, c, domain.Validation("invalid unit payload").WithReason(domain.ReasonInvalidPayload).WithCause(err))
		return
	}
	transport.SetPlayerID(ctx, req.PlayerID)
	u, err := h.town.Economy.Recruit(ctx, app.RecruitCmd{
		PlayerID: req.PlayerID,
		Type:     req.Type,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(ctx, c, u)
}

func (h *HttpHandler) ListUnits(c *gin.Context) {
	ctx := c.Request.Context()
	us, err := h.town.Query.ListUnits(ctx, c.Param("playerId"))
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(ctx, c, us)
}

// RecentChat limit 缺省或非法时取默认值。
func (h *HttpHandler) RecentChat(c *gin.Context) {
	ctx := c.Request.Context()
	limit, _ := strconv.Atoi(c.Query("limit"))
	msgs, err := h.town.Chat.Recent(ctx, limit)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(ctx, c, msgs)
}

func (h *HttpHandler) GameState(c *gin.Context) {
	ctx := c.Request.Context()
	playerID := c.Query("playerId")
	transport.SetPlayerID(ctx, playerID)
	st, err := h.town.Query.GameState(ctx, playerID)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(ctx, c, st)
}

func (h *HttpHandler) CreateBattle(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.CreateBattleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.error(ctx, c, domain.Validation("invalid battle payload").WithReason(domain.ReasonInvalidPayload).WithCause(err))
		return
	}
	transport.SetPlayerID(ctx, req.AttackerID)
	b, err := h.town.Battle.Resolve(ctx, app.BattleCmd{
		AttackerID:    req.AttackerID,
		DefenderID:    req.DefenderID,
		AttackerUnits: req.AttackerUnits,
		DefenderUnits: req.DefenderUnits,
	})
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(ctx, c, b)
}

func (h *HttpHandler) ListBattles(c *gin.Context) {
	ctx := c.Request.Context()
	bs, err := h.town.Battle.List(ctx, c.Param("playerId"))
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(ctx, c, bs)
}

func (h *HttpHandler) Catalog(c *gin.Context) {
	h.ok(c.Request.Context(), c, h.town.Query.Catalog())
}

func (h *HttpHandler) ok(ctx context.Context, c *gin.Context, data any) {
	transport.SetBizCode(ctx, transport.OK)
	c.JSON(nethttp.StatusOK, data)
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, err error) {
	status, resp := HandleError(ctx, err)
	logx.ReportErrorWithLoggerContext(ctx, h.log, c.Request.Method+" "+c.FullPath(), err)
	c.JSON(status, resp)
}
