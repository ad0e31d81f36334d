package iopipeline

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/pkg/errcode"
	"github.com/gnames/gnexpr/pkg/expr"
)

// GroupsError is returned when compared populations are not usable.
// Available labels are shown to help the user pick correct ones.
func GroupsError(g expr.Groups, available []string, err error) error {
	msg := "Cannot compare <em>%s</em> with <em>%s</em>"
	vars := []any{g.Test, g.Reference}
	if len(available) > 0 {
		msg += "\nAvailable populations: %s"
		vars = append(vars, strings.Join(available, ", "))
	}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.AnalysisGroupsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: groups %s: %w", fn.Name(), g, err),
	}
}

func DesignError(g expr.Groups, err error) error {
	msg := "Cannot build design matrix for <em>%s</em>"
	vars := []any{g.String()}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.AnalysisDesignError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: design: %w", fn.Name(), err),
	}
}

func FitError(err error) error {
	msg := "Cannot fit linear models"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.AnalysisFitError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: fit: %w", fn.Name(), err),
	}
}

func RankError(err error) error {
	msg := "Cannot rank probes"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.AnalysisRankError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: top table: %w", fn.Name(), err),
	}
}

func OutputError(path string, err error) error {
	msg := "Cannot write report file %s"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReportOutputError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: output %s: %w", fn.Name(), path, err),
	}
}

// CancelledError creates an error for an interrupted analysis.
func CancelledError(err error) error {
	msg := "Analysis was cancelled"
	return &gn.Error{
		Code: errcode.PipelineCancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("analysis cancelled: %w", err),
	}
}
