package errors

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	assert.Equal(t, 0, adapter.ExitCodeFor(nil))
	assert.Equal(t, 1, adapter.ExitCodeFor(stderrors.New("plain")))
	assert.Equal(t, 2, adapter.ExitCodeFor(ValidationError("x").Build()))
	assert.Equal(t, 3, adapter.ExitCodeFor(NotFoundError("x").Build()))
	assert.Equal(t, 7, adapter.ExitCodeFor(ConfigError("x").Build()))
	assert.Equal(t, 11, adapter.ExitCodeFor(RenderError("x").Build()))
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	var logBuf, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	adapter := NewCLIErrorAdapter(false, logger)

	code := adapter.Report(&out, NotFoundError("readme not found").WithContext("package", "core").Build())

	assert.Equal(t, 3, code)
	assert.Equal(t, "Error: readme not found\n", out.String())
	assert.Contains(t, logBuf.String(), "package=core")
}
