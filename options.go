package rifx

import (
	"log/slog"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/logicossoftware/go-rifx/logging"
)

type readConfig struct {
	limits    Limits
	logger    *slog.Logger
	encoding  encoding.Encoding
	cacheSize int
}

func newReadConfig(opts []ReadOption) readConfig {
	cfg := readConfig{limits: defaultLimits(), encoding: charmap.ISO8859_1}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	if cfg.logger == nil {
		cfg.logger = logging.Logger()
	}
	if cfg.encoding == nil {
		cfg.encoding = charmap.ISO8859_1
	}
	return cfg
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithLogger sets the logger for one archive. By default the package logger
// from the logging package is used, which discards everything.
func WithLogger(l *slog.Logger) ReadOption {
	return func(c *readConfig) { c.logger = l }
}

// WithTextEncoding selects the single-byte code page used for STXT text,
// XMED text and cast member names. The default is ISO 8859-1.
func WithTextEncoding(enc encoding.Encoding) ReadOption {
	return func(c *readConfig) { c.encoding = enc }
}

// WithPayloadCache keeps up to n decoded payloads in memory, keyed by
// resource id. Zero disables caching.
func WithPayloadCache(n int) ReadOption {
	return func(c *readConfig) { c.cacheSize = n }
}
