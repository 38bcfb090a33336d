package hopdong

import "context"

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs     []string
	password  string
	keyPrefix string
	uploadDir string
	engine    Engine
}

// WithRedis connects the client to a Redis-compatible server.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithKeyPrefix namespaces all stored keys (default "hopdong:").
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithUploadDir sets where original files are stored (default "uploads").
func WithUploadDir(dir string) Option {
	return func(c *clientConfig) {
		c.uploadDir = dir
	}
}

// WithEngine replaces the default local tesseract engine.
func WithEngine(e Engine) Option {
	return func(c *clientConfig) {
		c.engine = e
	}
}

// Engine turns a stored contract file into raw text. An empty lang keeps
// the engine's default language models.
type Engine interface {
	Recognize(ctx context.Context, path, lang string) (EngineResult, error)
	Name() string
}

// EngineResult is the outcome of one recognition run.
type EngineResult struct {
	Text  string
	Pages int
}
