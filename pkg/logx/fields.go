package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldAttempt         = "attempt"
	FieldChannel         = "channel"
	FieldDealURL         = "deal-url"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldEstimator       = "estimator"
	FieldFeed            = "feed"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldModel           = "model"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldStack           = "stack"
	FieldTask            = "task"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
)
