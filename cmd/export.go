package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/naka-gawa/repo-insights/internal/chart"
	"github.com/naka-gawa/repo-insights/internal/export"
	"github.com/naka-gawa/repo-insights/internal/usecase"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [owner/repo]",
	Short: "Writes every metric as a CSV file, and optionally the chart figures as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, cfg, err := loadDataset(cmd, args, "")
		if err != nil {
			return err
		}
		dir := cfg.OutputDir
		if cmd.Flags().Changed("dir") {
			dir, _ = cmd.Flags().GetString("dir")
		}

		bundle := usecase.Aggregate(*ds)
		paths, err := export.WriteCSV(dir, bundle)
		if err != nil {
			return fmt.Errorf("failed to export CSV: %w", err)
		}

		if withCharts, _ := cmd.Flags().GetBool("charts"); withCharts {
			figs := chart.NewRenderer(chart.BluePalette).RenderAll(bundle)
			figPaths, err := export.WriteFigures(filepath.Join(dir, "charts"), figs)
			if err != nil {
				return fmt.Errorf("failed to export charts: %w", err)
			}
			paths = append(paths, figPaths...)
		}

		out := cmd.OutOrStdout()
		for _, p := range paths {
			fmt.Fprint(out, pterm.Success.Sprintln(p))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("dir", "d", "", "Output directory (default from REPO_INSIGHTS_OUTPUT_DIR or \"exports\")")
	exportCmd.Flags().Bool("charts", false, "Also write chart figures as Plotly JSON under <dir>/charts")
	exportCmd.Flags().StringP("input", "i", "", "Read a dataset snapshot instead of fetching from GitHub")
}
