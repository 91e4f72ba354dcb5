package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-synth/internal/imaging"
)

type collageOpts struct {
	grayscale bool
	mixed     bool
	margin    int
	fill      string
	out       string
}

// newCollageCmd creates the collage command, which tiles the given files into
// a near-square grid in argument order.
func newCollageCmd(ro *rootOpts) *cobra.Command {
	var opts collageOpts

	cmd := &cobra.Command{
		Use:   "collage FILE...",
		Short: "Tile image files into one grid image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("margin") {
				opts.margin = ro.cfg.Collage.Margin
			}
			if !flags.Changed("fill") {
				opts.fill = ro.cfg.Collage.Fill
			}
			if opts.out == "" {
				opts.out = filepath.Join(ro.cfg.Output.Dir, "collage."+ro.cfg.Output.Format)
			}
			return runCollage(cmd, ro, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.grayscale, "grayscale", false, "load every file as grayscale")
	cmd.Flags().BoolVar(&opts.mixed, "mixed", false, "load each file as grayscale or color at random")
	cmd.Flags().IntVar(&opts.margin, "margin", 0, "gap in pixels between cells (default from config)")
	cmd.Flags().StringVar(&opts.fill, "fill", "", "canvas color as #rgb or #rrggbb (default from config)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default collage.<format> in the output dir)")
	cmd.MarkFlagsMutuallyExclusive("grayscale", "mixed")

	return cmd
}

func runCollage(cmd *cobra.Command, ro *rootOpts, opts collageOpts, paths []string) error {
	logger := loggerFromContext(cmd.Context())

	fill, err := imaging.ParseFill(opts.fill)
	if err != nil {
		return err
	}

	store := imaging.NewFileStore(nil)
	rng := ro.newRand()
	images := make([]*imaging.PixelBuffer, len(paths))
	for i, p := range paths {
		mode := imaging.ModeColor
		switch {
		case opts.grayscale:
			mode = imaging.ModeGrayscale
		case opts.mixed && rng.IntN(2) == 0:
			mode = imaging.ModeGrayscale
		}
		if images[i], err = store.Decode(p, mode); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		logger.Debug("loaded", "path", p, "mode", mode, "width", images[i].Width, "height", images[i].Height)
	}

	canvas, err := imaging.ComposeGridFill(images, opts.margin, fill)
	if err != nil {
		return err
	}
	if err := store.Encode(canvas, opts.out); err != nil {
		return err
	}

	columns, rows := imaging.GridLayout(len(images))
	logger.Info("wrote collage", "path", opts.out, "columns", columns, "rows", rows,
		"width", canvas.Width, "height", canvas.Height)
	return nil
}
