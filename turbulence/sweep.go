package turbulence

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-turbulence/algorithms/filters"
	"github.com/RyanBlaney/sonido-turbulence/algorithms/noise"
	"github.com/RyanBlaney/sonido-turbulence/algorithms/stats"
	"github.com/RyanBlaney/sonido-turbulence/logging"
)

// SweepPoint is the spread of smoothed white noise at one setting
type SweepPoint struct {
	// Width is the moving-average width in samples, or 1/cutoff for a
	// brick-wall point, the equivalent correlation length in samples.
	Width     float64 `json:"width"`
	Cutoff    float64 `json:"cutoff,omitempty"`
	StdDev    float64 `json:"std_dev"`
	Predicted float64 `json:"predicted"` // sqrt(1/Width)·input std dev
}

// SweepResult compares moving-average and brick-wall smoothing of the same
// white noise. Both shrink the variance like 1/Width.
type SweepResult struct {
	InputStdDev   float64      `json:"input_std_dev"`
	MovingAverage []SweepPoint `json:"moving_average"`
	BrickWall     []SweepPoint `json:"brick_wall"`
}

// CutoffSweep smooths one white noise sequence at every configured width and
// cutoff. A nil config selects DefaultSweepConfig.
func CutoffSweep(cfg *SweepConfig) (*SweepResult, error) {
	if cfg == nil {
		cfg = DefaultSweepConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.WithFields(logging.Fields{
		"component": "cutoff_sweep",
		"seed":      cfg.Seed,
	})

	source, err := noise.NewWhiteNoise(noise.Gaussian, 1, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("create noise source: %w", err)
	}
	input := source.Generate(cfg.Samples)
	inStd := stats.Summarize(input).StdDev

	res := &SweepResult{
		InputStdDev:   inStd,
		MovingAverage: make([]SweepPoint, 0, len(cfg.Widths)),
		BrickWall:     make([]SweepPoint, 0, len(cfg.Cutoffs)),
	}

	for _, width := range cfg.Widths {
		avg, err := filters.NewMovingAverage(width)
		if err != nil {
			return nil, err
		}
		y, err := avg.Apply(input)
		if err != nil {
			return nil, fmt.Errorf("moving average width %d: %w", width, err)
		}

		// the first width-1 outputs average a partial window
		w := float64(width)
		res.MovingAverage = append(res.MovingAverage, SweepPoint{
			Width:     w,
			StdDev:    stats.Summarize(y[width-1:]).StdDev,
			Predicted: inStd / math.Sqrt(w),
		})
	}

	for _, cutoff := range cfg.Cutoffs {
		y, err := filters.BrickWallLowpass(input, cutoff)
		if err != nil {
			return nil, fmt.Errorf("brick wall cutoff %v: %w", cutoff, err)
		}

		res.BrickWall = append(res.BrickWall, SweepPoint{
			Width:     1 / cutoff,
			Cutoff:    cutoff,
			StdDev:    stats.Summarize(y).StdDev,
			Predicted: inStd * math.Sqrt(cutoff),
		})
	}

	logger.Debug("Sweep completed", logging.Fields{
		"widths":  len(res.MovingAverage),
		"cutoffs": len(res.BrickWall),
	})

	return res, nil
}
