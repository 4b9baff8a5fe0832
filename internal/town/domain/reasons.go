package domain

import "FrontierTown/modules/kit/errx"

// Reason 业务拒绝的细分原因：Code 写进 error data.reason 供日志与排障，Message 是给客户端的说明。
type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{
		Code:    c,
		Message: m,
	}
}

var _ errx.Reason = Reason{}

var (
	// 参数校验类拒绝，对外统一是 TOWN_VALIDATION_ERROR。
	ReasonPlayerIDRequired    = NewReason("PLAYER_ID_REQUIRED", "playerId is required")
	ReasonBattleSidesRequired = NewReason("BATTLE_SIDES_REQUIRED", "attackerId and defenderId are required")
	ReasonUsernameRequired    = NewReason("USERNAME_REQUIRED", "username is required")
	ReasonUsernameTooLong     = NewReason("USERNAME_TOO_LONG", "username too long")
	ReasonPositionOutOfMap    = NewReason("POSITION_OUT_OF_MAP", "position out of map")
	ReasonQuantityTooSmall    = NewReason("QUANTITY_TOO_SMALL", "quantity must be at least 1")
	ReasonQuantityOverflow    = NewReason("QUANTITY_OVERFLOW", "quantity too large")
	ReasonNegativeCost        = NewReason("NEGATIVE_COST", "cost must not be negative")
	ReasonMalformedUnitSet    = NewReason("MALFORMED_UNIT_SET", "malformed unit set")
	ReasonNegativeUnitStat    = NewReason("NEGATIVE_UNIT_STAT", "unit quantity and stats must not be negative")
	ReasonPowerOverflow       = NewReason("POWER_OVERFLOW", "battle power out of range")
	ReasonChatEmpty           = NewReason("CHAT_EMPTY", "message must not be empty")
	ReasonChatTooLong         = NewReason("CHAT_TOO_LONG", "message too long")
	ReasonInvalidPayload      = NewReason("INVALID_PAYLOAD", "invalid payload")
)

// Reject 按原因派生一个校验错误。
func Reject(r Reason) *Error {
	return Validation(r.Message).WithReason(r)
}
