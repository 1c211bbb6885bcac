package fts

// Option configures a Stream.
type Option func(*options)

type options struct {
	logger    Logger
	readBatch int
}

func defaultOptions() options {
	return options{
		logger:    discardLogger{},
		readBatch: DefaultReadDirBatch,
	}
}

// WithLogger sets the logger receiving stream diagnostics.
// A nil logger discards everything.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l == nil {
			l = discardLogger{}
		}
		o.logger = l
	}
}

// WithReadDirBatch sets how many directory entries are requested per
// DirReader.ReadDir call. Values below 1 select DefaultReadDirBatch.
func WithReadDirBatch(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = DefaultReadDirBatch
		}
		o.readBatch = n
	}
}
