/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/internal/iogeo"
	"github.com/gnames/gnexpr/internal/iopipeline"
	"github.com/gnames/gnexpr/pkg/config"
	"github.com/gnames/gnexpr/pkg/dea"
	"github.com/spf13/cobra"
)

// getAnalyzeCmd returns the analyze command.
func getAnalyzeCmd() *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze <GSE>",
		Short: "Find differentially expressed genes between two populations",
		Long: `Run the complete analysis of a GEO series: retrieval, annotation,
log transform, moderated linear models and reports.

Positive log fold changes mean higher expression in the --test
population compared to the --reference population.

Report files are written to the output directory:
  <GSE>_<test>_vs_<reference>.tsv           ranked table
  <GSE>_<test>_vs_<reference>.yaml          summary of the run
  <GSE>_<test>_vs_<reference>.heatmap.png   significant probes
  <GSE>_<test>_vs_<reference>.volcano.png   all probes

Examples:
  gnexpr analyze GSE15907 -r T.4.Sp -t B.Fo.Sp
  gnexpr analyze GSE15907 -r T.4.Sp -t B.Fo.Sp --top 50 --lfc 1
  gnexpr analyze GSE15907 -r T.4.Sp -t B.Fo.Sp -g Cd19 -g Foxp3 -o out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runAnalyze(cmd, args[0])
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fl := analyzeCmd.Flags()
	fl.StringP("reference", "r", "", "reference (baseline) population")
	fl.StringP("test", "t", "", "test population compared to the reference")
	fl.StringP("platform", "p", "",
		"platform (GPL) of a series with several platforms")
	fl.StringP("source", "s", "",
		"annotation source: sqlite, postgres or assignment")
	fl.Int("top", 0, "maximum number of rows of the ranked table")
	fl.Float64("p-value", 0, "adjusted p-value threshold")
	fl.Float64("lfc", 0, "minimum absolute log fold change")
	fl.String("adjust", "",
		"p-value adjustment: "+strings.Join(dea.AdjustMethods, ", "))
	fl.String("sort", "", "sort key: "+strings.Join(dea.SortKeys, ", "))
	fl.Int("labels", 0, "number of labeled points of the volcano plot")
	fl.Int("heatmap-rows", 0, "maximum number of heatmap rows")
	fl.StringP("output", "o", "", "directory for report files")
	fl.StringSliceP("gene", "g", nil, "gene symbol to look up, repeatable")

	_ = analyzeCmd.MarkFlagRequired("reference")
	_ = analyzeCmd.MarkFlagRequired("test")

	return analyzeCmd
}

func analyzeOptions(cmd *cobra.Command) []config.Option {
	return flagOptions(cmd,
		groupsFlag, platformFlag, sourceFlag, reportFlag,
	)
}

func runAnalyze(cmd *cobra.Command, accession string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg.Update(analyzeOptions(cmd))

	p := iopipeline.New(cfg, iogeo.New(cfg), accession)
	_, err := p.Run(ctx)
	return err
}
