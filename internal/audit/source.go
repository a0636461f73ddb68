package audit

import "context"

type sourceKey struct{}

// WithSource returns a context whose audit entries are attributed to source,
// typically the remote address of an HTTP request.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

// SourceFrom returns the source set by WithSource, or "".
func SourceFrom(ctx context.Context) string {
	source, _ := ctx.Value(sourceKey{}).(string)
	return source
}
