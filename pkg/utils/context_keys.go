package utils

type traceIdCtxKey string
type requestIdCtxKey string

var TraceIdCtx traceIdCtxKey = "trace_id"
var RequestIdCtx requestIdCtxKey = "request_id"
