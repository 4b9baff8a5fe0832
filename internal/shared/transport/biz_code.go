package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
//
// 取值约定与 logx.ReportAccessWithLoggerContext 的分级一致：
// 0 成功，1~499 业务拒绝（WARN），>=500 系统错误（ERROR）。
type BizCode int

const (
	unsetBizCode BizCode = -1

	OK                    BizCode = 0
	InvalidParam          BizCode = 100
	NotFound              BizCode = 104
	InvalidType           BizCode = 105
	InsufficientResources BizCode = 106
	RouteNotFound         BizCode = 110
	SystemError           BizCode = 500
	Timeout               BizCode = 504
)
