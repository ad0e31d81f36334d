// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"testing"

	"github.com/gnames/gnexpr/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "gnexpr_test"
)

// Config returns a configuration suitable for tests. HomeDir is a
// temporary directory removed after the test, progress bars are disabled
// and the database name is TestDatabaseName. Additional options are
// applied last.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    cfg := iotesting.Config(t, config.OptRepositoryURL(srv.URL))
//	    // ... use cfg
//	}
func Config(t *testing.T, opts ...config.Option) *config.Config {
	t.Helper()

	noProgress := false
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(t.TempDir()),
		config.OptRepositoryWithProgress(&noProgress),
		config.OptDatabaseDatabase(TestDatabaseName),
		config.OptLogDestination("stderr"),
	})
	cfg.Update(opts)
	return cfg
}
