package response

// 业务码直接采用 HTTP 状态码；成功为 0
const (
	CodeOK                  = 0
	CodeBadRequest          = 400
	CodeUnauthorized        = 401
	CodeForbidden           = 403
	CodeNotFound            = 404
	CodeConflict            = 409
	CodeTooLarge            = 413
	CodeRangeNotSatisfiable = 416
	CodeTooManyRequests     = 429
	CodeServerError         = 500
	CodeUnavailable         = 503
	CodeTimeout             = 504
)

// CodeMsgMap 用于集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:                  "OK",
	CodeBadRequest:          "Bad Request",
	CodeUnauthorized:        "Unauthorized",
	CodeForbidden:           "Forbidden",
	CodeNotFound:            "Not Found",
	CodeConflict:            "Conflict",
	CodeTooLarge:            "Request Entity Too Large",
	CodeRangeNotSatisfiable: "Range Not Satisfiable",
	CodeTooManyRequests:     "Too Many Requests",
	CodeServerError:         "Internal Server Error",
	CodeUnavailable:         "Service Unavailable",
	CodeTimeout:             "Gateway Timeout",
}
