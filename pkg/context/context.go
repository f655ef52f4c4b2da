package context

import "context"

type ContextKey string

var (
	RequestIDKey  = ContextKey("X-Request-Id")
	MethodKey     = ContextKey("X-Method")
	RouteKey      = ContextKey("X-Route")
	RemoteIPKey   = ContextKey("X-Remote-Ip")
	DocumentIDKey = ContextKey("X-Document-Id")
	SourceKey     = ContextKey("X-Source")
)

func set(ctx context.Context, key ContextKey, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

func get(ctx context.Context, key ContextKey) string {
	value, ok := ctx.Value(key).(string)
	if !ok {
		return ""
	}
	return value
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return set(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	return get(ctx, RequestIDKey)
}

func SetMethod(ctx context.Context, method string) context.Context {
	return set(ctx, MethodKey, method)
}

func GetMethod(ctx context.Context) string {
	return get(ctx, MethodKey)
}

func SetRoute(ctx context.Context, route string) context.Context {
	return set(ctx, RouteKey, route)
}

func GetRoute(ctx context.Context) string {
	return get(ctx, RouteKey)
}

func SetRemoteIP(ctx context.Context, remoteIP string) context.Context {
	return set(ctx, RemoteIPKey, remoteIP)
}

func GetRemoteIP(ctx context.Context) string {
	return get(ctx, RemoteIPKey)
}

// SetDocumentID marks ctx as processing one transcript
func SetDocumentID(ctx context.Context, documentID string) context.Context {
	return set(ctx, DocumentIDKey, documentID)
}

func GetDocumentID(ctx context.Context) string {
	return get(ctx, DocumentIDKey)
}

// SetSource records where the transcript came from: http, kafka or file
func SetSource(ctx context.Context, source string) context.Context {
	return set(ctx, SourceKey, source)
}

func GetSource(ctx context.Context) string {
	return get(ctx, SourceKey)
}
