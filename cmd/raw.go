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

	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/internal/iogeo"
	"github.com/gnames/gnexpr/pkg/geo"
	"github.com/spf13/cobra"
)

// getRawCmd returns the raw command.
func getRawCmd() *cobra.Command {
	rawCmd := &cobra.Command{
		Use:   "raw <GSE>",
		Short: "Download and extract supplementary raw files of a series",
		Long: `Download the <GSE>_RAW.tar supplementary archive of a GEO series and
extract it. Raw files (for example Affymetrix CEL) are not used by the
analysis, they are provided for other tools.

Examples:
  gnexpr raw GSE15907
  gnexpr raw GSE15907 -o GSE15907_RAW`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runRaw(cmd, args[0])
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	rawCmd.Flags().StringP("output", "o", "",
		"directory for extracted files (default: <GSE>_RAW)")

	return rawCmd
}

func runRaw(cmd *cobra.Command, accession string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dir, _ := cmd.Flags().GetString("output")
	if dir == "" {
		dir = rawDir(accession)
	}

	files, err := iogeo.New(cfg).Raw(ctx, accession, dir)
	if err != nil {
		return err
	}
	gn.Info("Extracted <em>%d</em> files to <em>%s</em>", len(files), dir)
	return nil
}

func rawDir(accession string) string {
	return geo.Normalize(accession) + "_RAW"
}
