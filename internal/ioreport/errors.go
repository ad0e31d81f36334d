package ioreport

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/pkg/errcode"
)

func TableError(err error) error {
	msg := "Cannot write the ranked table"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReportTableError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: table: %w", fn.Name(), err),
	}
}

func SummaryError(err error) error {
	msg := "Cannot write the analysis summary"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReportSummaryError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: summary: %w", fn.Name(), err),
	}
}

func PlotError(kind string, err error) error {
	msg := "Cannot render the %s plot"
	vars := []any{kind}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReportPlotError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s plot: %w", fn.Name(), kind, err),
	}
}

func EmptyError(kind string) error {
	msg := "Nothing to draw on the %s plot"
	vars := []any{kind}
	return &gn.Error{
		Code: errcode.ReportEmptyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no rows for %s plot", kind),
	}
}
