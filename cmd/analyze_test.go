package cmd

import (
	"testing"

	"github.com/gnames/gnexpr/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetAnalyzeCmd_Flags verifies flags and their short forms.
func TestGetAnalyzeCmd_Flags(t *testing.T) {
	cmd := getAnalyzeCmd()
	assert.Equal(t, "analyze <GSE>", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	flags := map[string]string{
		"reference":    "r",
		"test":         "t",
		"platform":     "p",
		"source":       "s",
		"output":       "o",
		"gene":         "g",
		"top":          "",
		"p-value":      "",
		"lfc":          "",
		"adjust":       "",
		"sort":         "",
		"labels":       "",
		"heatmap-rows": "",
	}
	for name, short := range flags {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, short, flag.Shorthand, name)
	}
	assert.Contains(t, cmd.Flags().Lookup("adjust").Usage, "bonferroni")
}

// TestAnalyzeOptions verifies flags override config values and unset
// flags keep them.
func TestAnalyzeOptions(t *testing.T) {
	cmd := getAnalyzeCmd()
	err := cmd.ParseFlags([]string{
		"-r", "T.4.Sp", "-t", "B.Fo.Sp",
		"--top", "50", "--lfc", "1", "--adjust", "holm",
		"-g", "Cd19", "-g", "Foxp3", "-o", "out",
		"-p", "gpl6246", "-s", "assignment",
	})
	require.NoError(t, err)

	c := config.New()
	c.Update(analyzeOptions(cmd))
	assert.Equal(t, "T.4.Sp", c.Analysis.Reference)
	assert.Equal(t, "B.Fo.Sp", c.Analysis.Test)
	assert.Equal(t, 50, c.Report.TopNumber)
	assert.Equal(t, 1.0, c.Report.LFC)
	assert.Equal(t, "holm", c.Report.AdjustMethod)
	assert.Equal(t, []string{"Cd19", "Foxp3"}, c.Report.Genes)
	assert.Equal(t, "out", c.Report.OutputDir)
	assert.Equal(t, "GPL6246", c.Repository.Platform)
	assert.Equal(t, "assignment", c.Annotation.Source)

	def := config.New()
	assert.Equal(t, def.Report.PValue, c.Report.PValue)
	assert.Equal(t, def.Report.SortBy, c.Report.SortBy)
	assert.Equal(t, def.Report.HeatmapRows, c.Report.HeatmapRows)
}

// TestAnalyzeOptions_Invalid verifies rejected values keep defaults.
func TestAnalyzeOptions_Invalid(t *testing.T) {
	cmd := getAnalyzeCmd()
	err := cmd.ParseFlags([]string{
		"-r", "T.4.Sp", "-t", "B.Fo.Sp",
		"--p-value", "1.5", "--sort", "size",
	})
	require.NoError(t, err)

	c := config.New()
	c.Update(analyzeOptions(cmd))
	assert.Equal(t, 0.05, c.Report.PValue)
	assert.Equal(t, "p", c.Report.SortBy)
}

// TestGetAnalyzeCmd_RequiredFlags verifies groups are required.
func TestGetAnalyzeCmd_RequiredFlags(t *testing.T) {
	cmd := getAnalyzeCmd()
	cmd.SetArgs([]string{"GSE15907", "-r", "T.4.Sp"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test")
}
