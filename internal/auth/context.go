package auth

import "context"

type contextKey string

const (
	contextKeyShop    contextKey = "auth.shop_id"
	contextKeyRole    contextKey = "auth.role"
	contextKeySubject contextKey = "auth.subject"
)

// WithIdentity stores auth identity details in context.
func WithIdentity(ctx context.Context, shopID int, role Role, subject string) context.Context {
	ctx = context.WithValue(ctx, contextKeyShop, shopID)
	ctx = context.WithValue(ctx, contextKeyRole, role)
	ctx = context.WithValue(ctx, contextKeySubject, subject)
	return ctx
}

// ShopIDFromContext extracts the shop id from context; 0 when absent.
func ShopIDFromContext(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	if shopID, ok := ctx.Value(contextKeyShop).(int); ok {
		return shopID
	}
	return 0
}

// RoleFromContext extracts role from context.
func RoleFromContext(ctx context.Context) Role {
	if ctx == nil {
		return ""
	}
	value := ctx.Value(contextKeyRole)
	if role, ok := value.(Role); ok {
		return role
	}
	if role, ok := value.(string); ok {
		if normalized, valid := NormalizeRole(role); valid {
			return normalized
		}
	}
	return ""
}

// SubjectFromContext extracts subject from context.
func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if subject, ok := ctx.Value(contextKeySubject).(string); ok {
		return subject
	}
	return ""
}

// EnsureShop verifies that the request identity may act on the shop.
// Admins may act on any shop; everyone else only on their own.
func EnsureShop(ctx context.Context, shopID int) error {
	if RoleFromContext(ctx) == RoleAdmin {
		return nil
	}
	own := ShopIDFromContext(ctx)
	if own == 0 {
		return ErrUnauthorized
	}
	if own != shopID {
		return ErrShopMismatch
	}
	return nil
}
