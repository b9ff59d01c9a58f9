package types

import "context"

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID      ContextKey = "ctx_request_id"
	CtxOrganizationID ContextKey = "ctx_organization_id"
	CtxStoreID        ContextKey = "ctx_store_id"

	// DefaultOrganizationID scopes requests that carry no organization header
	DefaultOrganizationID = "00000000-0000-0000-0000-000000000000"
)

const (
	HeaderRequestID      = "X-Request-ID"
	HeaderOrganizationID = "X-Organization-ID"
	HeaderStoreID        = "X-Store-ID"
)

func GetOrganizationID(ctx context.Context) string {
	if orgID, ok := ctx.Value(CtxOrganizationID).(string); ok {
		return orgID
	}
	return ""
}

// GetStoreID returns the store the request is priced for. Empty means no
// store-level overrides apply.
func GetStoreID(ctx context.Context) string {
	if storeID, ok := ctx.Value(CtxStoreID).(string); ok {
		return storeID
	}
	return ""
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

func SetOrganizationID(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, CtxOrganizationID, orgID)
}

func SetStoreID(ctx context.Context, storeID string) context.Context {
	return context.WithValue(ctx, CtxStoreID, storeID)
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}
