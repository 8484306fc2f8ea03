package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStringHelpers(t *testing.T) {
	cases := []struct {
		attr slog.Attr
		key  string
		val  string
	}{
		{Package("core"), KeyPackage, "core"},
		{Version("main"), KeyVersion, "main"},
		{Item("Client:class"), KeyItem, "Client:class"},
		{Kind("Class"), KeyKind, "Class"},
		{Path("/docs"), KeyPath, "/docs"},
		{Method("GET"), KeyMethod, "GET"},
		{RequestID("rid"), KeyRequestID, "rid"},
		{UserAgent("ua"), KeyUserAgent, "ua"},
		{RemoteAddr("1.2.3.4"), KeyRemoteAddr, "1.2.3.4"},
		{PageKind("readme"), KeyPageKind, "readme"},
	}
	for _, c := range cases {
		assert.Equal(t, c.key, c.attr.Key)
		assert.Equal(t, c.val, c.attr.Value.String())
	}
}

func TestNumericAndErrorHelpers(t *testing.T) {
	assert.Equal(t, int64(404), Status(404).Value.Int64())
	assert.InDelta(t, 1.5, Duration(1500*time.Microsecond).Value.Float64(), 0.0001)
	assert.Equal(t, "", Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}
