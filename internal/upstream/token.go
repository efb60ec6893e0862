package upstream

import "context"

type tokenKey struct{}

// WithToken 把调用方的 Bearer Token 放入上下文，外部服务调用时原样转发
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom 取出上下文中的 Token
func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}
