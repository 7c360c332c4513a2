package engine

const (
	defaultFrameSize       = 2048
	defaultHopSize         = 512
	defaultDetectionWindow = 2048
	defaultTelemetryBuffer = 16

	minDetectionWindow = 256
)

// CorrectorConfig defines construction-time settings for a Corrector.
type CorrectorConfig struct {
	FrameSize         int
	HopSize           int
	DetectionWindow   int
	DetectionInterval int
	TelemetryBuffer   int
}

// CorrectorOption mutates a CorrectorConfig.
type CorrectorOption func(*CorrectorConfig)

// DefaultCorrectorConfig returns sensible defaults for singing voice at
// common sample rates.
func DefaultCorrectorConfig() CorrectorConfig {
	return CorrectorConfig{
		FrameSize:         defaultFrameSize,
		HopSize:           defaultHopSize,
		DetectionWindow:   defaultDetectionWindow,
		DetectionInterval: defaultDetectionInterval,
		TelemetryBuffer:   defaultTelemetryBuffer,
	}
}

// WithFrameSize sets the vocoder analysis frame size in samples. It must
// be a power of two.
func WithFrameSize(frameSize int) CorrectorOption {
	return func(cfg *CorrectorConfig) {
		if frameSize > 0 {
			cfg.FrameSize = frameSize
		}
	}
}

// WithHopSize sets the vocoder hop size in samples. It must divide the
// frame size.
func WithHopSize(hopSize int) CorrectorOption {
	return func(cfg *CorrectorConfig) {
		if hopSize > 0 {
			cfg.HopSize = hopSize
		}
	}
}

// WithDetectionWindow sets how many of the most recent input samples are
// handed to the pitch detector on each scan.
func WithDetectionWindow(window int) CorrectorOption {
	return func(cfg *CorrectorConfig) {
		if window > 0 {
			cfg.DetectionWindow = window
		}
	}
}

// WithDetectionInterval sets the initial number of processed blocks
// between pitch scans.
func WithDetectionInterval(blocks int) CorrectorOption {
	return func(cfg *CorrectorConfig) {
		if blocks > 0 {
			cfg.DetectionInterval = blocks
		}
	}
}

// WithTelemetryBuffer sets the capacity of the telemetry channel.
func WithTelemetryBuffer(capacity int) CorrectorOption {
	return func(cfg *CorrectorConfig) {
		if capacity > 0 {
			cfg.TelemetryBuffer = capacity
		}
	}
}

// ApplyCorrectorOptions applies zero or more options to the default config.
func ApplyCorrectorOptions(opts ...CorrectorOption) CorrectorConfig {
	cfg := DefaultCorrectorConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
