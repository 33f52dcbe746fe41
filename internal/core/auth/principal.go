package auth

import "context"

const RoleAdmin = "ADMIN"

// Principal 当前请求的身份，只来源于已校验的 token
type Principal struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (p *Principal) IsAdmin() bool { return p != nil && p.Role == RoleAdmin }

// Owns 本人或管理员
func (p *Principal) Owns(userID string) bool {
	return p != nil && (p.UserID == userID || p.IsAdmin())
}

func FromClaims(c *Claims) *Principal {
	return &Principal{UserID: c.UID, Username: c.Username, Role: c.Role}
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext 匿名请求返回 nil
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
