package errs

var (
	SystemError              = ErrorCode{Code: 518001, Msg: "系统错误"}
	ConcurrentUpdateConflict = ErrorCode{Code: 518002, Msg: "结算冲突，请使用原场次重新提交"}
	InvalidInput             = ErrorCode{Code: 418001, Msg: "输入错误"}
	NoQuestionsAvailable     = ErrorCode{Code: 418002, Msg: "没有符合条件的题目"}
	UnknownAttempt           = ErrorCode{Code: 418003, Msg: "冲刺场次不存在"}
	AttemptNotCommittable    = ErrorCode{Code: 418004, Msg: "冲刺场次已终结，无法结算"}
	AttemptExpired           = ErrorCode{Code: 418005, Msg: "冲刺场次已过期"}
	InvalidState             = ErrorCode{Code: 418006, Msg: "冲刺场次状态非法"}
	InvalidOutcome           = ErrorCode{Code: 418007, Msg: "冲刺结果校验失败"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
