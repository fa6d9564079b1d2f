package requestdata

import (
	"context"

	"github.com/openlms/backend/internal/types"
)

type ctxKey struct{}

var requestDataKey ctxKey

// RequestData carries the authenticated actor for the lifetime of one request.
type RequestData struct {
	Actor       *types.User
	TokenString string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
		return rd
	}
	return nil
}

// GetActor returns the authenticated actor, or nil when the request never
// passed the auth middleware.
func GetActor(ctx context.Context) *types.User {
	rd := GetRequestData(ctx)
	if rd == nil {
		return nil
	}
	return rd.Actor
}
