package auth

import (
	"context"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
)

type callerKey struct{}

func WithCaller(ctx context.Context, c model.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom returns the anonymous caller when the request carried no token.
func CallerFrom(ctx context.Context) model.Caller {
	c, _ := ctx.Value(callerKey{}).(model.Caller)
	return c
}
