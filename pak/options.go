package pak

import (
	"io"
	"log/slog"

	"github.com/joshuapare/pakkit/pak/cipher"
	"github.com/joshuapare/pakkit/pak/order"
)

// Options configures Open, Create and OpenCatalog. A nil *Options uses the
// zero value: no cipher material and no logging.
type Options struct {
	// Cipher supplies the block network tables and block cipher keys.
	// Handlers that need material that is absent fail to parse, and detection
	// moves on.
	Cipher cipher.Config

	// Logger receives detection and save diagnostics. Nil discards.
	Logger *slog.Logger
}

func (o *Options) cipher() cipher.Config {
	if o == nil {
		return cipher.Config{}
	}
	return o.Cipher
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// AddOptions controls where Add places a new entry. Nil appends at the end.
type AddOptions struct {
	// MaintainSort inserts at the binary-search position under Order instead
	// of appending. The committed records are assumed to be sorted already.
	MaintainSort bool
	Order        order.Order
}
