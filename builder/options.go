package builder

import "github.com/rs/zerolog"

// options collects BuildParser's optional settings (spec §6.4, teacher's
// -receiver-name/-debug flags).
type options struct {
	receiverName string
	logger       zerolog.Logger
}

// Option configures BuildParser.
type Option func(*options)

// ReceiverName sets the receiver name used for generated Action/predicate
// methods on *current. Defaults to "c", matching the teacher's own
// default (main.go: `flag.String("receiver-name", "c", ...)`).
func ReceiverName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.receiverName = name
		}
	}
}

// Logger sets the zerolog.Logger BuildParser emits debug events to.
// Defaults to a disabled logger, so BuildParser is silent unless a
// caller opts in — mirroring the teacher's `debug bool` flag, now
// structured (SPEC_FULL §1).
func Logger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func defaultOptions() *options {
	return &options{
		receiverName: "c",
		logger:       zerolog.Nop(),
	}
}
