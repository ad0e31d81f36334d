package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/pkg/errcode"
)

// CreateDirError is returned when one of the gnexpr directories cannot
// be created.
func CreateDirError(dir string, err error) error {
	msg := "Cannot create directory <em>%s</em>"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: mkdir %s: %w", fn.Name(), dir, err),
	}
}

// ConfigWriteError is returned when the default config.yaml cannot be
// written.
func ConfigWriteError(path string, err error) error {
	msg := "Cannot write default configuration to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ConfigWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: write config %s: %w", fn.Name(), path, err),
	}
}

// ConfigReadError is returned for a config file that cannot be read or
// decoded. Deleting the file restores defaults on the next run.
func ConfigReadError(path string, err error) error {
	msg := "Cannot read configuration <em>%s</em>\n" +
		"Fix its YAML or delete it to restore defaults"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ConfigReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: read config %s: %w", fn.Name(), path, err),
	}
}
