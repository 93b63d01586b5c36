package dbpf

import (
	"log/slog"

	"github.com/klauspost/compress/zlib"
)

// Option configures a Package at creation or open time.
type Option func(*Package)

// WithLeaveOpen keeps the backing stream open when the package is closed.
// Use it when the caller owns the stream's lifetime. Without it, Close
// (and failed opens) release the stream if it implements io.Closer.
func WithLeaveOpen() Option {
	return func(p *Package) { p.leaveOpen = true }
}

// WithLogger sets the logger for debug events. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(p *Package) { p.logger = l }
}

// WithCompressionLevel sets the zlib level used when saving.
// The default is zlib.BestCompression.
func WithCompressionLevel(level int) Option {
	return func(p *Package) { p.level = level }
}

// defaultCompressionLevel is applied unless WithCompressionLevel overrides it.
const defaultCompressionLevel = zlib.BestCompression
