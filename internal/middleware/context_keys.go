package middleware

// contextKey is a private type for context keys defined by this package.
// Using a custom type prevents collisions with keys from other packages.
type contextKey string

const (
	loggerKey    = contextKey("logger")
	requestIDKey = contextKey("request_id")
)
