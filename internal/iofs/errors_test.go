package iofs

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors verifies codes, message variables, caller context and
// wrapping of file system errors.
func TestErrors(t *testing.T) {
	cause := errors.New("permission denied")
	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		path string
	}{
		{"create dir", CreateDirError("/test/dir", cause),
			errcode.CreateDirError, "/test/dir"},
		{"write config", ConfigWriteError("/test/config.yaml", cause),
			errcode.ConfigWriteError, "/test/config.yaml"},
		{"read config", ConfigReadError("/test/config.yaml", cause),
			errcode.ConfigReadError, "/test/config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gnErr *gn.Error
			require.True(t, errors.As(tt.err, &gnErr))
			assert.Equal(t, tt.code, gnErr.Code)
			assert.Contains(t, gnErr.Msg, "%s")
			assert.Equal(t, []any{tt.path}, gnErr.Vars)
			assert.Contains(t, gnErr.Err.Error(), "from ")
			assert.Contains(t, gnErr.Err.Error(), "iofs.TestErrors")
			assert.ErrorIs(t, gnErr.Err, cause)
		})
	}
}
