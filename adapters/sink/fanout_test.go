package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpower/domain/power"
	apperrors "mcpower/internal/errors"
)

type fakeSink struct {
	records   []power.SummaryRecord
	closed    bool
	appendErr error
	closeErr  error
}

func (s *fakeSink) Append(rec power.SummaryRecord) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *fakeSink) Close() error {
	s.closed = true
	return s.closeErr
}

func TestFanout_BroadcastsAppends(t *testing.T) {
	a, b := &fakeSink{}, &fakeSink{}
	f := NewFanout(a, b)

	rec := power.SummaryRecord{GeneratorID: "linear", Dimension: 2}
	require.NoError(t, f.Append(rec))
	require.NoError(t, f.Close())

	assert.Equal(t, []power.SummaryRecord{rec}, a.records)
	assert.Equal(t, []power.SummaryRecord{rec}, b.records)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestFanout_AppendFailureStopsBroadcast(t *testing.T) {
	a := &fakeSink{appendErr: apperrors.SinkWriteFailure("disk full")}
	b := &fakeSink{}
	f := NewFanout(a, b)

	err := f.Append(power.SummaryRecord{GeneratorID: "sine"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSinkWriteFailure))
	assert.Empty(t, b.records, "later sinks are skipped once a write fails")
}

func TestFanout_CloseClosesAllDespiteErrors(t *testing.T) {
	a := &fakeSink{closeErr: apperrors.SinkWriteFailure("flush failed")}
	b := &fakeSink{}
	f := NewFanout(a, b)

	err := f.Close()
	require.Error(t, err)
	assert.True(t, b.closed, "every sink gets a Close attempt")
}
