package middleware

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestIDHeader is the metadata key carrying a caller supplied request id.
const RequestIDHeader = "x-request-id"

// ContextMiddleware attaches a request id to the context, reusing the one
// sent by the caller when present.
func ContextMiddleware(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	id := ""
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(RequestIDHeader); len(v) > 0 {
			id = v[0]
		}
	}
	if id == "" {
		id = generateRequestID()
	}
	ctx = context.WithValue(ctx, requestIDKey, id)
	return handler(ctx, req)
}

// RequestID returns the id attached by ContextMiddleware, "" if none.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func generateRequestID() string {
	return uuid.NewString()
}
