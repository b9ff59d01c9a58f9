package testutil

import (
	"context"

	"github.com/lensprice/lensprice/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetOrganizationID(ctx, types.DefaultOrganizationID)
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	return ctx
}
