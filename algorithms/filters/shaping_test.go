package filters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-turbulence/algorithms/noise"
	"github.com/RyanBlaney/sonido-turbulence/algorithms/stats"
)

func TestBuildRejectsInvalidScales(t *testing.T) {
	tests := []struct {
		name string
		T, L float64
		want error
	}{
		{"zero interval", 0, 1, ErrInvalidSampleInterval},
		{"negative interval", -0.1, 1, ErrInvalidSampleInterval},
		{"nan interval", math.NaN(), 1, ErrInvalidSampleInterval},
		{"zero length", 0.1, 0, ErrInvalidLengthScale},
		{"negative length", 0.1, -2, ErrInvalidLengthScale},
		{"infinite length", 0.1, math.Inf(1), ErrInvalidLengthScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.T, tt.L, KindLowpass1)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Build(0.1, 1, "lowpass7")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestLowpass1Coefficients(t *testing.T) {
	f, err := Build(0.01, 0.1, KindLowpass1)
	require.NoError(t, err)

	c := f.Coefficients()
	require.Len(t, c.Stages, 1)
	assert.InDelta(t, 0.1/0.11, c.Stages[0].Feedback, 1e-12)
	assert.InDelta(t, math.Sqrt(20)*0.01/0.11, c.Stages[0].Gain, 1e-12)
	assert.Equal(t, 1.0, c.OutputScale)
	assert.Equal(t, 1, c.Sections())
	assert.Equal(t, KindLowpass1, f.Kind())
	assert.Equal(t, InitZero, f.InitialCondition())
	assert.Equal(t, NormalizationReference, f.Normalization())
}

func TestLateralCoefficients(t *testing.T) {
	T, L := 0.5, 2.0
	f, err := Build(T, L, KindLateral)
	require.NoError(t, err)

	c := f.Coefficients()
	require.Len(t, c.Stages, 2)

	short, long := c.Stages[0], c.Stages[1]
	assert.InDelta(t, 2.4/2.9, short.Feedback, 1e-12)
	assert.InDelta(t, (0.5/2.9)*math.Sqrt(4.8), short.Gain, 1e-12)
	assert.Equal(t, 1, short.Order)
	assert.InDelta(t, 9.0/8.0, short.Weight, 1e-12)

	assert.InDelta(t, 6.0/6.5, long.Feedback, 1e-12)
	assert.InDelta(t, (0.5/6.5)*math.Pow(12, 0.25), long.Gain, 1e-12)
	assert.Equal(t, 2, long.Order)
	assert.InDelta(t, -1.0/8.0, long.Weight, 1e-12)

	assert.InDelta(t, 1/math.Sqrt(T), c.OutputScale, 1e-12)
	assert.Equal(t, 3, c.Sections())
}

func TestCoefficientsReturnsCopy(t *testing.T) {
	f, err := Build(0.1, 1, KindLateral)
	require.NoError(t, err)

	c := f.Coefficients()
	c.Stages[0].Gain = 100
	assert.NotEqual(t, 100.0, f.Coefficients().Stages[0].Gain)
}

func TestPolesInsideUnitCircle(t *testing.T) {
	for _, kind := range []Kind{KindLowpass1, KindLateral} {
		for _, T := range []float64{1e-4, 0.01, 1, 100} {
			f, err := Build(T, 0.5, kind)
			require.NoError(t, err)

			assert.True(t, f.Stable())
			for _, p := range f.Poles() {
				assert.True(t, p > 0 && p < 1, "%s T=%v pole %v", kind, T, p)
			}
		}
	}

	f, err := Build(0.1, 1, KindLateral)
	require.NoError(t, err)
	assert.Len(t, f.Poles(), 3)
}

func TestTransientLength(t *testing.T) {
	assert.Equal(t, 50, TransientLength(0.01, 0.1))
	assert.Equal(t, 0, TransientLength(0, 1))

	f, err := Build(1, 10, KindLateral)
	require.NoError(t, err)
	// slowest stage has length scale 3L
	assert.Equal(t, 150, f.TransientLength())
}

func TestApplyStandardDeviationScenario(t *testing.T) {
	const (
		T = 0.01
		L = 0.1
		n = 10240
	)

	f, err := Build(T, L, KindLowpass1)
	require.NoError(t, err)

	x := noise.NewGaussian(12345).Generate(n)
	y, err := f.Apply(x)
	require.NoError(t, err)
	require.Len(t, y, n)

	want := math.Sqrt(2 * L / (T + 2*L))
	ratio := stats.StdDevRatio(x, y)
	assert.InEpsilon(t, want, ratio, 0.10, "std ratio %v", ratio)
}

func TestApplyPreservesStandardDeviation(t *testing.T) {
	const (
		L = 0.1
		n = 1 << 20
	)

	for _, T := range []float64{0.001, 0.005, 0.01} {
		f, err := Build(T, L, KindLowpass1)
		require.NoError(t, err)

		x := noise.NewGaussian(2024).Generate(n)
		y, err := f.Apply(x)
		require.NoError(t, err)

		ratio := stats.StdDevRatio(x, y)
		assert.InDelta(t, 1.0, ratio, 0.05, "T=%v", T)
	}
}

func TestApplyMatchesExponentialCorrelation(t *testing.T) {
	const (
		T      = 0.01
		L      = 0.1
		n      = 65536
		maxLag = 50
	)

	f, err := Build(T, L, KindLowpass1)
	require.NoError(t, err)

	y, err := f.Apply(noise.NewGaussian(99).Generate(n))
	require.NoError(t, err)

	est, err := stats.Autocorrelation(y, maxLag, 1)
	require.NoError(t, err)

	for i, tau := range est.Positions(T) {
		if math.Abs(tau) >= 5*L {
			continue
		}
		assert.InDelta(t, math.Exp(-math.Abs(tau)/L), est.Values[i], 0.1, "tau=%v", tau)
	}
}

func TestApplyDeterministic(t *testing.T) {
	f, err := Build(0.05, 1, KindLateral)
	require.NoError(t, err)

	x := noise.NewGaussian(5).Generate(4096)
	a, err := f.Apply(x)
	require.NoError(t, err)
	b, err := f.Apply(x)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	f, err := Build(0.05, 1, KindLowpass1)
	require.NoError(t, err)

	x := noise.NewGaussian(5).Generate(128)
	orig := append([]float64(nil), x...)
	_, err = f.Apply(x)
	require.NoError(t, err)

	assert.Equal(t, orig, x)
}

func TestApplyRejectsBadInput(t *testing.T) {
	f, err := Build(0.05, 1, KindLowpass1)
	require.NoError(t, err)

	_, err = f.Apply(nil)
	assert.ErrorIs(t, err, ErrEmptySignal)

	_, err = f.Apply([]float64{0, math.NaN(), 1})
	assert.ErrorIs(t, err, ErrNonFinite)

	_, err = f.Apply([]float64{math.Inf(1)})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestInitialConditions(t *testing.T) {
	x := noise.NewGaussian(8).Generate(512)

	zero, err := Build(0.01, 0.1, KindLowpass1)
	require.NoError(t, err)
	periodic, err := Build(0.01, 0.1, KindLowpass1, WithInitialCondition(InitPeriodic))
	require.NoError(t, err)
	assert.Equal(t, InitPeriodic, periodic.InitialCondition())

	yz, err := zero.Apply(x)
	require.NoError(t, err)
	yp, err := periodic.Apply(x)
	require.NoError(t, err)

	stage := zero.Coefficients().Stages[0]
	assert.InDelta(t, stage.Gain*x[0], yz[0], 1e-12)
	// the primed state is the final output of a zero-state pass
	assert.InDelta(t, stage.Gain*x[0]+stage.Feedback*yz[len(yz)-1], yp[0], 1e-12)

	// both runs converge once the start-up transient has decayed
	tail := zero.TransientLength() * 4
	assert.InDelta(t, yz[tail], yp[tail], 1e-6)
}

func TestImpulseResponse(t *testing.T) {
	f, err := Build(0.01, 0.1, KindLowpass1)
	require.NoError(t, err)

	h := f.ImpulseResponse(4)
	stage := f.Coefficients().Stages[0]
	require.Len(t, h, 4)
	assert.InDelta(t, stage.Gain, h[0], 1e-12)
	for i := 1; i < len(h); i++ {
		assert.InDelta(t, stage.Feedback*h[i-1], h[i], 1e-12)
	}

	assert.Empty(t, f.ImpulseResponse(0))
}

func TestStationaryVarianceLowpass1(t *testing.T) {
	for _, tc := range []struct{ T, L float64 }{
		{0.01, 0.1},
		{0.001, 0.1},
		{10, 0.1},
		{1, 1},
	} {
		f, err := Build(tc.T, tc.L, KindLowpass1)
		require.NoError(t, err)

		v, err := f.StationaryVariance()
		require.NoError(t, err)
		assert.InDelta(t, 2*tc.L/(tc.T+2*tc.L), v, 1e-9, "T=%v L=%v", tc.T, tc.L)
	}
}

func TestStationaryVarianceLateral(t *testing.T) {
	f, err := Build(100.0/30.0, 300, KindLateral)
	require.NoError(t, err)

	v, err := f.StationaryVariance()
	require.NoError(t, err)
	assert.InDelta(t, 1.1947013, v, 1e-6)

	// the sum of squared impulse response is the same quantity
	var energy float64
	for _, h := range f.ImpulseResponse(20000) {
		energy += h * h
	}
	assert.InEpsilon(t, v, energy, 1e-6)
}

func TestUnitVarianceNormalization(t *testing.T) {
	for _, kind := range []Kind{KindLowpass1, KindLateral} {
		for _, T := range []float64{0.01, 1, 30} {
			f, err := Build(T, 3, kind, WithNormalization(NormalizationUnitVariance))
			require.NoError(t, err)

			v, err := f.StationaryVariance()
			require.NoError(t, err)
			assert.InDelta(t, 1.0, v, 1e-9, "%s T=%v", kind, T)
		}
	}

	f, err := Build(0.1, 3, KindLateral, WithNormalization(NormalizationUnitVariance))
	require.NoError(t, err)
	y, err := f.Apply(noise.NewGaussian(77).Generate(1 << 18))
	require.NoError(t, err)

	s := stats.Summarize(y[f.TransientLength():])
	assert.InDelta(t, 1.0, s.StdDev, 0.05)
}

func TestCoarseSamplingAttenuates(t *testing.T) {
	const (
		T = 10.0
		L = 0.1
	)

	f, err := Build(T, L, KindLowpass1)
	require.NoError(t, err)

	x := noise.NewGaussian(3).Generate(1 << 16)
	y, err := f.Apply(x)
	require.NoError(t, err)

	ratio := stats.StdDevRatio(x, y)
	assert.InEpsilon(t, math.Sqrt(2*L/T), ratio, 0.05)
	assert.Less(t, ratio, 0.2)
}

func TestParseOptions(t *testing.T) {
	ic, err := ParseInitialCondition("Periodic")
	require.NoError(t, err)
	assert.Equal(t, InitPeriodic, ic)

	n, err := ParseNormalization("unit_variance")
	require.NoError(t, err)
	assert.Equal(t, NormalizationUnitVariance, n)

	_, err = ParseInitialCondition("random")
	assert.Error(t, err)
	_, err = ParseNormalization("peak")
	assert.Error(t, err)

	text, err := NormalizationUnitVariance.MarshalText()
	require.NoError(t, err)
	var back Normalization
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, NormalizationUnitVariance, back)
}

func TestKindTransientLengthMatchesBuiltFilter(t *testing.T) {
	for _, kind := range []Kind{KindLowpass1, KindLateral} {
		f, err := Build(0.2, 4, kind)
		require.NoError(t, err)
		assert.Equal(t, f.TransientLength(), KindTransientLength(kind, 0.2, 4), string(kind))
	}
}
