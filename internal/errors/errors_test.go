package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_PreservesCode(t *testing.T) {
	base := GenerationFailure("dimension must be positive")
	wrapped := Wrap(base, "building linear generator")

	assert.True(t, HasCode(wrapped, CodeGenerationFailure))
	assert.Equal(t, CodeGenerationFailure, GetCode(wrapped))
	assert.Contains(t, wrapped.Error(), "building linear generator")
	assert.Contains(t, wrapped.Error(), "dimension must be positive")
}

func TestWrapf_FormatsContext(t *testing.T) {
	base := MeasureFailure("too few observations")
	wrapped := Wrapf(base, "trial %d", 17)
	assert.Contains(t, wrapped.Error(), "trial 17")
	assert.True(t, HasCode(wrapped, CodeMeasureFailure))
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithCode(CodeInternalError, nil))
}

func TestWithCode_Reassigns(t *testing.T) {
	err := WithCode(CodeConfigInvalid, fmt.Errorf("noise_count must be positive"))
	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.True(t, HasCode(err, CodeConfigInvalid))
}

func TestHasCode_ThroughStdlibWrapping(t *testing.T) {
	base := SinkWriteFailure("disk full")
	wrapped := fmt.Errorf("cell slice=c obs=1000 dim=4: %w", base)

	assert.True(t, HasCode(wrapped, CodeSinkWriteFailure))
	assert.False(t, HasCode(wrapped, CodeMeasureFailure))
	assert.Equal(t, CodeSinkWriteFailure, GetCode(wrapped))
}

func TestGetCode_UnknownForPlainErrors(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
	assert.False(t, HasCode(stderrors.New("plain"), CodeInternalError))
}

func TestUnwrap_ExposesCause(t *testing.T) {
	base := stderrors.New("connection refused")
	wrapped := WithCode(CodeSinkWriteFailure, base)
	require.ErrorIs(t, wrapped, base)
}
