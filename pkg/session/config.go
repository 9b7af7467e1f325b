package session

// DefaultHeader carries the session token on every authenticated request.
const DefaultHeader = "X-Token"

// KeyPrefix is prepended to a token to form its storage key.
const KeyPrefix = "auth_"

// Config holds session configuration.
type Config struct {
	// Header is the request header carrying the token.
	Header string `env:"SESSION_HEADER" envDefault:"X-Token"`
}
