package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-synth/internal/imaging"
	"github.com/ironsheep/image-synth/internal/perspective"
)

type overlayOpts struct {
	background string
	foreground string
	corners    string
	grayscale  bool
	out        string
}

// newOverlayCmd creates the overlay command, which projects the foreground so
// its corners land on --corners and writes the composite.
func newOverlayCmd(ro *rootOpts) *cobra.Command {
	var opts overlayOpts

	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Project an image onto four points of a background",
		Example: `  image-synth overlay --background bg.jpg --foreground label.png \
    --corners "10,5 50,12 45,55 8,40" --out composite.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.out == "" {
				opts.out = filepath.Join(ro.cfg.Output.Dir, "overlay."+ro.cfg.Output.Format)
			}
			return runOverlay(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.background, "background", "b", "", "background image file")
	cmd.Flags().StringVarP(&opts.foreground, "foreground", "f", "", "foreground image file")
	cmd.Flags().StringVar(&opts.corners, "corners", "", `target corners "x,y x,y x,y x,y" (top-left, top-right, bottom-right, bottom-left)`)
	cmd.Flags().BoolVar(&opts.grayscale, "grayscale", false, "load both images as grayscale")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default overlay.<format> in the output dir)")
	for _, name := range []string{"background", "foreground", "corners"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runOverlay(cmd *cobra.Command, opts overlayOpts) error {
	logger := loggerFromContext(cmd.Context())

	dst, err := parseCorners(opts.corners)
	if err != nil {
		return err
	}

	mode := imaging.ModeColor
	if opts.grayscale {
		mode = imaging.ModeGrayscale
	}
	store := imaging.NewFileStore(nil)
	bg, err := store.Decode(opts.background, mode)
	if err != nil {
		return fmt.Errorf("background %s: %w", opts.background, err)
	}
	fg, err := store.Decode(opts.foreground, mode)
	if err != nil {
		return fmt.Errorf("foreground %s: %w", opts.foreground, err)
	}

	prog := newProgress(logger)
	out, err := perspective.CompositeWarped(bg, fg, dst)
	if err != nil {
		return err
	}
	if err := store.Encode(out, opts.out); err != nil {
		return err
	}
	prog.done("wrote overlay", "path", opts.out, "width", out.Width, "height", out.Height)
	return nil
}

// parseCorners parses four whitespace-separated "x,y" pairs.
func parseCorners(s string) (perspective.Quad, error) {
	var q perspective.Quad

	fields := strings.Fields(s)
	if len(fields) != len(q) {
		return q, fmt.Errorf("corners: want 4 points, got %d", len(fields))
	}
	for i, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return q, fmt.Errorf("corners: point %q is not x,y", f)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return q, fmt.Errorf("corners: point %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return q, fmt.Errorf("corners: point %q: %w", f, err)
		}
		q[i] = perspective.Point{X: x, Y: y}
	}
	return q, nil
}
