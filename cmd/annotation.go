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

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/internal/ioannot"
	"github.com/spf13/cobra"
)

// getAnnotationCmd returns the annotation command with its subcommands.
func getAnnotationCmd() *cobra.Command {
	annotCmd := &cobra.Command{
		Use:   "annotation",
		Short: "Manage the accession to gene symbol table",
		Long: `Manage the table that maps probe accessions to gene symbols.

The table is stored in the source set by annotation.source: an SQLite
file in ~/.local/share/gnexpr (sqlite) or a PostgreSQL database
(postgres). The "assignment" source needs no table, it uses gene
assignments of the platform.`,
	}

	annotCmd.PersistentFlags().StringP("key-type", "k", "",
		"accession type of records, e.g. REFSEQ")
	annotCmd.PersistentFlags().StringP("source", "s", "",
		"annotation source: sqlite or postgres")

	annotCmd.AddCommand(getAnnotationImportCmd(), getAnnotationCountCmd())
	return annotCmd
}

func getAnnotationImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.tsv>",
		Short: "Import accession to symbol records",
		Long: `Import records from a tab-separated file with a header line.
Columns "accession" and "symbol" are required, "gene_id" is optional,
other columns are ignored. Lines starting with "#" are comments.
Records without a symbol are skipped, existing records of the same
accession are replaced.

Examples:
  gnexpr annotation import refseq2symbol.tsv
  gnexpr annotation import refseq2symbol.tsv --key-type REFSEQ`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runAnnotationImport(cmd, args[0])
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
}

func getAnnotationCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of records of a key type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runAnnotationCount(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
}

func runAnnotationImport(cmd *cobra.Command, path string) error {
	ctx := context.Background()
	cfg.Update(flagOptions(cmd, keyTypeFlag, sourceFlag))

	store, err := ioannot.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = ioannot.ImportFile(ctx, store, path, cfg.Annotation.KeyType,
		*cfg.Repository.WithProgress)
	return err
}

func runAnnotationCount(cmd *cobra.Command) error {
	ctx := context.Background()
	cfg.Update(flagOptions(cmd, keyTypeFlag, sourceFlag))

	store, err := ioannot.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	num, err := store.Count(ctx, cfg.Annotation.KeyType)
	if err != nil {
		return err
	}
	gn.Info("<em>%s</em> records in %s source: <em>%s</em>",
		cfg.Annotation.KeyType, cfg.Annotation.Source,
		humanize.Comma(int64(num)))
	return nil
}
