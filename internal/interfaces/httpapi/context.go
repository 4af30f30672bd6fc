package httpapi

import (
	"context"

	"github.com/riskibarqy/futalyst/internal/domain/user"
	"github.com/riskibarqy/futalyst/internal/usecase"
)

type contextKey string

const (
	principalContextKey   contextKey = "auth_principal"
	gameVersionContextKey contextKey = "game_version"
)

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(user.Principal)
	return p, ok
}

func withGameVersion(ctx context.Context, gameVersion string) context.Context {
	return context.WithValue(ctx, gameVersionContextKey, gameVersion)
}

// requestContextFrom builds the explicit caller identity passed to use cases.
func requestContextFrom(ctx context.Context) (usecase.RequestContext, bool) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return usecase.RequestContext{}, false
	}
	gameVersion, _ := ctx.Value(gameVersionContextKey).(string)
	return usecase.RequestContext{UserID: principal.UserID, GameVersion: gameVersion}, true
}
