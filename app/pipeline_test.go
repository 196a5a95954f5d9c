package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskuq/domain/core"
	"riskuq/domain/uncertainty"
	"riskuq/internal/logging"
)

func testLogger() *logrus.Logger {
	return logging.Silent()
}

func latinSet(t *testing.T, n int) *uncertainty.SampleSet {
	t.Helper()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = []float64{float64(i) / float64(n), 0.5 + float64(i)/float64(2*n)}
	}
	s, err := uncertainty.NewSampleSet([]string{"x_exp", "x_haz"}, rows, "latin", nil)
	require.NoError(t, err)
	return s
}

func TestMapRowsEmptySamples(t *testing.T) {
	s, err := uncertainty.NewSampleSet([]string{"x"}, nil, "latin", nil)
	require.NoError(t, err)
	_, err = mapRows(context.Background(), s, 4, func(i int, row uncertainty.Params) (int, error) {
		t.Fatal("fn must not run for an empty sample set")
		return 0, nil
	})
	assert.ErrorIs(t, err, core.ErrEmptySampleSet)
}

func TestMapRowsSequentialEqualsParallel(t *testing.T) {
	s := latinSet(t, 237)
	fn := func(i int, row uncertainty.Params) (float64, error) {
		return row["x_exp"] + 2*row["x_haz"], nil
	}

	seq, err := mapRows(context.Background(), s, 1, fn)
	require.NoError(t, err)
	par, err := mapRows(context.Background(), s, 8, fn)
	require.NoError(t, err)

	require.Len(t, par, s.N())
	for i := range seq {
		assert.Equal(t, seq[i], par[i], "row %d", i)
	}
}

func TestMapRowsPreservesRowOrder(t *testing.T) {
	s := latinSet(t, 50)
	out, err := mapRows(context.Background(), s, 4, func(i int, row uncertainty.Params) (int, error) {
		return i, nil
	})
	require.NoError(t, err)
	for i, v := range out {
		assert.Equal(t, i, v)
	}
}

func TestMapRowsErrorCarriesRowIndex(t *testing.T) {
	s := latinSet(t, 20)
	boom := errors.New("model exploded")
	_, err := mapRows(context.Background(), s, 4, func(i int, row uncertainty.Params) (int, error) {
		if i == 13 {
			return 0, boom
		}
		return i, nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, strings.Contains(err.Error(), "sample row 13"), "got %v", err)
}

func TestMapRowsContextCancellation(t *testing.T) {
	s := latinSet(t, 500)
	ctx, cancel := context.WithCancel(context.Background())
	_, err := mapRows(ctx, s, 4, func(i int, row uncertainty.Params) (int, error) {
		if i == 0 {
			cancel()
			return 0, fmt.Errorf("first row: %w", ctx.Err())
		}
		return i, nil
	})
	require.Error(t, err)
}

func TestQuietRestoresLevel(t *testing.T) {
	logger := testLogger()
	logger.SetLevel(logrus.DebugLevel)
	c := newCalc(logger)

	restore := c.quiet()
	assert.Equal(t, logrus.ErrorLevel, logger.GetLevel())
	restore()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestFreezeKwargsCopies(t *testing.T) {
	src := map[string]string{"risk_func": "aai"}
	frozen := freezeKwargs(src)
	src["risk_func"] = "tampered"
	assert.Equal(t, "aai", frozen["risk_func"])
}
