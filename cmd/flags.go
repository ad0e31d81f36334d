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
	"github.com/gnames/gnexpr/pkg/config"
	"github.com/spf13/cobra"
)

// flagFunc converts a flag set by the user to config options. Flags left
// at their defaults give no options, so config file and environment
// values survive.
type flagFunc func(cmd *cobra.Command) []config.Option

func flagOptions(cmd *cobra.Command, fns ...flagFunc) []config.Option {
	var res []config.Option
	for _, fn := range fns {
		res = append(res, fn(cmd)...)
	}
	return res
}

// globalOptions collects options of persistent flags.
func globalOptions(cmd *cobra.Command) []config.Option {
	return flagOptions(cmd, jobsFlag, quietFlag)
}

func jobsFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("jobs") {
		return nil
	}
	i, _ := cmd.Flags().GetInt("jobs")
	return []config.Option{config.OptJobsNumber(i)}
}

func quietFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("quiet") {
		return nil
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	withProgress := !quiet
	return []config.Option{config.OptRepositoryWithProgress(&withProgress)}
}

func platformFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("platform") {
		return nil
	}
	s, _ := cmd.Flags().GetString("platform")
	return []config.Option{config.OptRepositoryPlatform(s)}
}

func sourceFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("source") {
		return nil
	}
	s, _ := cmd.Flags().GetString("source")
	return []config.Option{config.OptAnnotationSource(s)}
}

func keyTypeFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("key-type") {
		return nil
	}
	s, _ := cmd.Flags().GetString("key-type")
	return []config.Option{config.OptAnnotationKeyType(s)}
}

func groupsFlag(cmd *cobra.Command) []config.Option {
	var res []config.Option
	if s, _ := cmd.Flags().GetString("reference"); s != "" {
		res = append(res, config.OptAnalysisReference(s))
	}
	if s, _ := cmd.Flags().GetString("test"); s != "" {
		res = append(res, config.OptAnalysisTest(s))
	}
	return res
}

func reportFlag(cmd *cobra.Command) []config.Option {
	var res []config.Option
	fl := cmd.Flags()
	if fl.Changed("top") {
		i, _ := fl.GetInt("top")
		res = append(res, config.OptReportTopNumber(i))
	}
	if fl.Changed("p-value") {
		f, _ := fl.GetFloat64("p-value")
		res = append(res, config.OptReportPValue(f))
	}
	if fl.Changed("lfc") {
		f, _ := fl.GetFloat64("lfc")
		res = append(res, config.OptReportLFC(f))
	}
	if fl.Changed("adjust") {
		s, _ := fl.GetString("adjust")
		res = append(res, config.OptReportAdjustMethod(s))
	}
	if fl.Changed("sort") {
		s, _ := fl.GetString("sort")
		res = append(res, config.OptReportSortBy(s))
	}
	if fl.Changed("labels") {
		i, _ := fl.GetInt("labels")
		res = append(res, config.OptReportLabelsNumber(i))
	}
	if fl.Changed("heatmap-rows") {
		i, _ := fl.GetInt("heatmap-rows")
		res = append(res, config.OptReportHeatmapRows(i))
	}
	if fl.Changed("output") {
		s, _ := fl.GetString("output")
		res = append(res, config.OptReportOutputDir(s))
	}
	if fl.Changed("gene") {
		ss, _ := fl.GetStringSlice("gene")
		res = append(res, config.OptReportGenes(ss))
	}
	return res
}
