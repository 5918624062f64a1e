package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cwbudde/fiducialfit/internal/fit"
	"github.com/cwbudde/fiducialfit/internal/render"
	"github.com/cwbudde/fiducialfit/internal/store"
	"github.com/cwbudde/fiducialfit/internal/synth"
)

var scene = synth.DefaultScene()

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Fit a synthetic cropped disk",
	Long: `Rasterizes a disk on a square sampling of [-extent, extent]^2, crops it to
the top-left rows x cols and fits a circle to the visible arc. The true circle
is printed next to the fit.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&scene.Size, "size", scene.Size, "Image size N (N x N)")
	simulateCmd.Flags().IntVar(&scene.Rows, "rows", scene.Rows, "Rows kept by the crop")
	simulateCmd.Flags().IntVar(&scene.Cols, "cols", scene.Cols, "Columns kept by the crop")
	simulateCmd.Flags().Float64Var(&scene.Extent, "extent", scene.Extent, "Half-width L of the sampled plane [-L, L]")
	simulateCmd.Flags().Float64Var(&scene.DiskRadius, "disk-radius", scene.DiskRadius, "Disk radius in plane units")
	addFitFlags(simulateCmd)

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if err := scene.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	_, cropped := scene.Render()
	cx, cy := scene.PixelCenter()
	truth := fit.Params{CenterX: cx, CenterY: cy, Radius: scene.PixelRadius()}

	w, h := cropped.Size()
	slog.Info("Rendered scene",
		"size", scene.Size,
		"crop_width", w,
		"crop_height", h,
		"foreground", cropped.Count(),
		"truth", truth.String(),
	)

	mask := render.MaskImage(cropped)
	job := fitJob{
		input: store.Input{
			Source: "simulate",
			Width:  w,
			Height: h,
		},
		grid:  cropped,
		base:  mask,
		mask:  mask,
		truth: &truth,
	}

	_, err = executeFit(cmd.OutOrStdout(), cfg, job)
	return err
}
