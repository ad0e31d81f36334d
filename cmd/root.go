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
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/internal/iofs"
	"github.com/gnames/gnexpr/internal/iologger"
	gnexpr "github.com/gnames/gnexpr/pkg"
	"github.com/gnames/gnexpr/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s",
			gnexpr.Version, gnexpr.Build),
		Use:   "gnexpr",
		Short: "Differential expression analysis of GEO series",
		Long: `gnexpr finds differentially expressed genes between two sample
populations of a public gene-expression series, for example the ImmGen
compendium (GSE15907).

The analysis has five stages:
  1. Retrieval of series matrix and platform table from GEO
  2. Annotation of probes with gene symbols
  3. Natural log transform of expression values
  4. Linear model per probe with empirical Bayes moderation
  5. Reports: ranked table, summary, heatmap and volcano plot

Configuration precedence (highest to lowest):
  1. Command flags
  2. Environment variables (GNEXPR_*)
  3. Config file (~/.config/gnexpr/config.yaml)
  4. Built-in defaults

Examples of environment variables:
  GNEXPR_ANNOTATION_SOURCE     sqlite, postgres or assignment
  GNEXPR_REPORT_P_VALUE        adjusted p-value threshold
  GNEXPR_LOG_LEVEL             debug, info, warn or error
  GNEXPR_JOBS_NUMBER           number of concurrent workers`,
		PersistentPreRunE: bootstrap,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	// -V is consistent with other gn projects
	rootCmd.Flags().BoolP("version", "V", false, "version for gnexpr")

	rootCmd.PersistentFlags().IntP("jobs", "j", 0,
		"number of concurrent workers (default: number of CPUs)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false,
		"do not show download progress bars")

	rootCmd.AddCommand(
		getFetchCmd(),
		getAnalyzeCmd(),
		getAnnotationCmd(),
		getRawCmd(),
	)
	return rootCmd
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// logging with defaults until the config is read
	defaultLog := config.New().Log
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	cfg.Update(cfgViper.ToOptions())
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})
	cfg.Update(globalOptions(cmd))

	if err = iologger.Init(config.LogDir(homeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"command", cmd.Name(),
	)
	return nil
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ConfigReadError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ConfigReadError(cfgPath, err)
	}

	return &res, nil
}

// initEnvVars binds environment variables explicitly, so it is clear which
// of them are allowed. They match fields of config.ToOptions().
func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("GNEXPR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	v.AutomaticEnv()
}

// envKeys are config keys that can be set by GNEXPR_* variables,
// "report.p_value" is GNEXPR_REPORT_P_VALUE.
var envKeys = []string{
	"repository.url",
	"repository.query_url",
	"repository.timeout",
	"repository.with_progress",

	"annotation.source",
	"annotation.pattern",
	"annotation.key_type",
	"annotation.batch_size",

	"database.host",
	"database.port",
	"database.user",
	"database.password",
	"database.database",
	"database.ssl_mode",

	"analysis.delimiter",

	"report.top_number",
	"report.p_value",
	"report.lfc",
	"report.adjust_method",
	"report.sort_by",
	"report.labels_number",
	"report.heatmap_rows",
	"report.output_dir",

	"log.level",
	"log.format",
	"log.destination",

	"jobs_number",
}
