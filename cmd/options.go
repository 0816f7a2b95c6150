package cmd

// Options holds the shared command-line options for the benchscan CLI.
type Options struct {
	Username    string
	Datasets    []string
	Output      string
	Format      string
	Offline     bool
	NoCache     bool
	ClearCache  bool
	CacheExpiry string
	Timeout     string
	Retries     int
	Verbosity   int
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithUsername sets the GitHub login to analyze.
func WithUsername(username string) Option {
	return func(o *Options) {
		o.Username = username
	}
}

// WithDatasets sets the dataset files to analyze.
func WithDatasets(paths []string) Option {
	return func(o *Options) {
		o.Datasets = paths
	}
}

// WithFormat sets the output format (table, json, summary).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithOffline disables GitHub API access.
func WithOffline(offline bool) Option {
	return func(o *Options) {
		o.Offline = offline
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}
