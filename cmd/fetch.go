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
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/internal/iogeo"
	"github.com/gnames/gnexpr/internal/iopipeline"
	"github.com/gnames/gnexpr/pkg/expr"
	"github.com/spf13/cobra"
)

// getFetchCmd returns the fetch command.
func getFetchCmd() *cobra.Command {
	fetchCmd := &cobra.Command{
		Use:   "fetch <GSE>",
		Short: "Download and annotate a GEO series",
		Long: `Download series matrix and platform table of a GEO series, annotate
probes with gene symbols and print populations of samples.

Population labels are parts of sample titles before the delimiter
(analysis.delimiter, "#" by default). Use them as --reference and
--test values of the analyze command.

Examples:
  gnexpr fetch GSE15907
  gnexpr fetch GSE15907 --platform GPL6246`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runFetch(cmd, args[0])
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fetchCmd.Flags().StringP("platform", "p", "",
		"platform (GPL) of a series with several platforms")

	return fetchCmd
}

func runFetch(cmd *cobra.Command, accession string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg.Update(flagOptions(cmd, platformFlag))

	p := iopipeline.New(cfg, iogeo.New(cfg), accession)
	s, st, err := p.Prepare(ctx)
	if err != nil {
		return err
	}

	gn.Info("Probes with symbols: <em>%s</em> of %s",
		humanize.Comma(int64(st.Symbols)), humanize.Comma(int64(st.Probes)))
	gn.Info("Populations of <em>%s</em>:", s.Accession)
	fmt.Print(populationsTable(s.Populations()))
	return nil
}

func populationsTable(pops []expr.PopulationCount) string {
	width := len("population")
	for _, v := range pops {
		width = max(width, len(v.Label))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  %-*s  %s\n", width, "population", "samples")
	for _, v := range pops {
		fmt.Fprintf(&b, "  %-*s  %d\n", width, v.Label, v.Samples)
	}
	return b.String()
}
