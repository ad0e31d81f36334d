package ioannot

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/pkg/errcode"
)

func SourceError(source string) error {
	msg := `Unknown annotation source <em>%s</em>

<em>How to fix:</em>
  Set annotation.source to 'sqlite' or 'postgres' in config.yaml`
	vars := []any{source}
	return &gn.Error{
		Code: errcode.AnnotSourceError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown annotation source '%s'", source),
	}
}

func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Could not connect to PostgreSQL database

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>
  2. Review connection settings in ~/.config/gnexpr/config.yaml
     Host: %s
     Port: %d
     Database: %s
     User: %s`
	vars := []any{host, port, host, port, database, user}
	return &gn.Error{
		Code: errcode.AnnotDBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

func OpenError(path string, err error) error {
	msg := "Cannot open annotation database <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.AnnotDBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open %s: %w",
			fn.Name(), path, err),
	}
}

func NotConnectedError() error {
	msg := "Annotation lookup attempted without database connection"
	return &gn.Error{
		Code: errcode.AnnotDBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

func QueryError(keyType string, err error) error {
	msg := "Annotation lookup failed for key type <em>%s</em>"
	vars := []any{keyType}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.AnnotQueryError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: symbols query: %w",
			fn.Name(), err),
	}
}

func ImportError(source string, err error) error {
	msg := `Cannot import annotation records from <em>%s</em>

<em>Expected format:</em>
  tab-separated file with header: accession, symbol, gene_id (optional)`
	vars := []any{source}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.AnnotImportError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: import: %w",
			fn.Name(), err),
	}
}
