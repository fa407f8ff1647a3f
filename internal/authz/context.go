package authz

import (
	"context"

	"github.com/Skotchmaster/task_service/internal/domain"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

type identityKey struct{}

func IntoContext(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}
