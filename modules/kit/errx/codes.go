package errx

// 跨服务统一的系统类错误码。
//
// 约束：
// - 只收录系统/技术类错误，便于告警与排障
// - 业务域错误码（例如 TOWN_NOT_FOUND）由各业务自行定义，不在 kit 里集中

const (
	// CodeInternal 服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 依赖不可用（存储、actor 运行时、下游等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 请求或依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeReqParamError 请求参数错误。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

// 统一系统类哨兵错误（通过 WithData/WithCause 派生新对象）。
var (
	ErrInternal    = NewSys(CodeInternal, "internal server error")
	ErrUnavailable = NewSys(CodeUnavailable, "service unavailable")
	ErrTimeout     = NewSys(CodeTimeout, "request timeout")
	ErrReqParamERR = NewSys(CodeReqParamError, "invalid request parameter")
)
