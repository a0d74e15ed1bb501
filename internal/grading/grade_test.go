package grading

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGradeHandlesLocaleAndMissingValues(t *testing.T) {
	cases := []struct {
		raw     string
		status  GradeStatus
		display float64
	}{
		{raw: "78,5", status: GradePresent, display: 78.5},
		{raw: "90", status: GradePresent, display: 90},
		{raw: "", status: GradeAbsent, display: 0},
		{raw: "105", status: GradePresent, display: 100},
		{raw: "  66.66 ", status: GradePresent, display: 66.7},
		{raw: "NaN", status: GradeAbsent, display: 0},
		{raw: "n/a", status: GradeMalformed, display: 0},
		{raw: "1,2,3", status: GradeMalformed, display: 0},
		{raw: "-4", status: GradePresent, display: 0},
	}

	for _, tc := range cases {
		grade := ParseGrade(tc.raw)
		require.Equal(t, tc.status, grade.Status, "raw %q", tc.raw)
		require.InDelta(t, tc.display, grade.Display(), 1e-9, "raw %q", tc.raw)
	}
}

func TestGradeKeepsUncappedValue(t *testing.T) {
	grade := ParseGrade("108")
	require.True(t, grade.ExceedsScale())
	require.Equal(t, 108.0, grade.Value)

	capped, ok := grade.Capped()
	require.True(t, ok)
	require.Equal(t, ScaleMax, capped)
}

func TestAbsentIsNotZero(t *testing.T) {
	_, ok := ParseGrade("").Capped()
	require.False(t, ok)

	value, ok := ParseGrade("0").Capped()
	require.True(t, ok)
	require.Zero(t, value)
}

func TestCapIsIdempotentAndBounded(t *testing.T) {
	for _, value := range []float64{-10, 0, 0.05, 42.42, 99.99, 100, 100.01, 250} {
		once := Cap(value)
		require.Equal(t, once, Cap(once))
		require.GreaterOrEqual(t, once, 0.0)
		require.LessOrEqual(t, once, ScaleMax)
		if value >= 0 && value <= ScaleMax {
			require.Equal(t, value, once)
		}

		display := Round1(once)
		require.Equal(t, display, Round1(Cap(display)))
	}
}

func TestPercentageRequiresPositiveMax(t *testing.T) {
	_, ok := Percentage(50, nil)
	require.False(t, ok)

	zero := 0.0
	_, ok = Percentage(50, &zero)
	require.False(t, ok)

	max := 80.0
	pct, ok := Percentage(100, &max)
	require.True(t, ok)
	require.InDelta(t, 125.0, pct, 1e-9)
}
