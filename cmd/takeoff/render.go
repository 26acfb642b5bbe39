package main

import (
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/philipparndt/gotakeoff/internal/overlay"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	renderPage     int
	renderZoom     float64
	renderRotation int
	renderProject  string
	renderOut      string
)

var renderCmd = &cobra.Command{
	Use:   "render [pdf]",
	Short: "Render a page with its measurement overlay to PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().IntVar(&renderPage, "page", 1, "page number")
	renderCmd.Flags().Float64Var(&renderZoom, "zoom", 0, "zoom factor (default: saved zoom or 1)")
	renderCmd.Flags().IntVar(&renderRotation, "rotation", 0, "clockwise rotation in degrees (0, 90, 180, 270)")
	renderCmd.Flags().StringVarP(&renderProject, "project", "p", "", "takeoff file (default: the sidecar next to the pdf if present)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default: <pdf>-<page>.png)")
}

func runRender(cmd *cobra.Command, args []string) error {
	pdf := args[0]
	log := logrus.WithField("component", "render")

	e, src, err := openTakeoff(cmd.Context(), pdf, renderPage-1, renderProject, log)
	if err != nil {
		return err
	}
	if renderZoom != 0 {
		if err := e.SetZoom(renderZoom); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("rotation") {
		if err := e.SetRotation(renderRotation); err != nil {
			return err
		}
	}

	snap := e.Snapshot()
	raster, err := src.RenderPage(cmd.Context(), snap.Page, snap.View.Zoom, snap.View.Rotation)
	if err != nil {
		return err
	}
	img := overlay.Compose(raster, snap, overlay.DefaultStyle)

	out := renderOut
	if out == "" {
		out = fmt.Sprintf("%s-%d.png", strings.TrimSuffix(pdf, ".pdf"), renderPage)
	}
	f, err := os.Create(out)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create %s", out)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return pkgerrors.Wrapf(err, "failed to encode %s", out)
	}

	fmt.Printf("Wrote %s (%dx%d)\n", out, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}
