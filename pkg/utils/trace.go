package utils

import (
	"context"

	"github.com/google/uuid"
)

func SetTraceId(ctx context.Context, traceId string) context.Context {
	return context.WithValue(ctx, TraceIdCtx, traceId)
}

func GetTraceId(ctx context.Context) string {
	if traceId, ok := ctx.Value(TraceIdCtx).(string); ok {
		return traceId
	}
	return ""
}

// EnsureTraceId returns ctx with a trace id, generating one if none is set
func EnsureTraceId(ctx context.Context) (context.Context, string) {
	if traceId := GetTraceId(ctx); traceId != "" {
		return ctx, traceId
	}
	traceId := uuid.New().String()
	return SetTraceId(ctx, traceId), traceId
}

// SetRequestId stores the JSON-RPC request id (as raw JSON text) on the context
func SetRequestId(ctx context.Context, requestId string) context.Context {
	return context.WithValue(ctx, RequestIdCtx, requestId)
}

func GetRequestId(ctx context.Context) string {
	if requestId, ok := ctx.Value(RequestIdCtx).(string); ok {
		return requestId
	}
	return ""
}
