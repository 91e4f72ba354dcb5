package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-synth/internal/background"
	"github.com/ironsheep/image-synth/internal/imaging"
)

type sampleOpts struct {
	root      string
	grayscale bool
	count     int
	width     int
	height    int
	outDir    string
	format    string
}

// newSampleCmd creates the sample command. For each i it writes a random
// background as image_<i> and a random resized crop as crop_<i>.
func newSampleCmd(ro *rootOpts) *cobra.Command {
	var opts sampleOpts

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write random backgrounds and random resized crops",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("root") {
				opts.root = ro.cfg.Background.Root
			}
			if !flags.Changed("grayscale") {
				opts.grayscale = ro.cfg.Background.Grayscale
			}
			if !flags.Changed("width") {
				opts.width = ro.cfg.Crop.Width
			}
			if !flags.Changed("height") {
				opts.height = ro.cfg.Crop.Height
			}
			if !flags.Changed("out-dir") {
				opts.outDir = ro.cfg.Output.Dir
			}
			if !flags.Changed("format") {
				opts.format = ro.cfg.Output.Format
			}
			return runSample(cmd, ro, opts)
		},
	}

	cmd.Flags().StringVar(&opts.root, "root", "", "directory searched recursively for background images")
	cmd.Flags().BoolVar(&opts.grayscale, "grayscale", false, "decode backgrounds as grayscale")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "number of image/crop pairs to write")
	cmd.Flags().IntVar(&opts.width, "width", 0, "crop width (default from config)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "crop height (default from config)")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "output directory (default from config)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: png, jpg or bmp (default from config)")

	return cmd
}

func runSample(cmd *cobra.Command, ro *rootOpts, opts sampleOpts) error {
	logger := loggerFromContext(cmd.Context())

	if opts.root == "" {
		return fmt.Errorf("no background root: pass --root or set background.root")
	}
	if opts.count < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", opts.count)
	}

	store := imaging.NewFileStore(nil)
	sampler, err := background.NewSampler(store, opts.root, opts.grayscale,
		background.WithRand(ro.newRand()),
		background.WithLogger(logger),
		background.WithMaxRetries(ro.cfg.Background.MaxRetries),
	)
	if err != nil {
		return err
	}
	logger.Info("scanned backgrounds", "root", opts.root, "images", len(sampler.Candidates()), "mode", sampler.Mode())

	prog := newProgress(logger)
	for i := 0; i < opts.count; i++ {
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		img, err := sampler.SampleImage()
		if err != nil {
			return err
		}
		imgPath := filepath.Join(opts.outDir, fmt.Sprintf("image_%d.%s", i, opts.format))
		if err := store.Encode(img, imgPath); err != nil {
			return err
		}

		crop, err := sampler.SampleCropDetail(opts.width, opts.height)
		if err != nil {
			return err
		}
		cropPath := filepath.Join(opts.outDir, fmt.Sprintf("crop_%d.%s", i, opts.format))
		if err := store.Encode(crop.Buffer, cropPath); err != nil {
			return err
		}
		logger.Debug("wrote sample", "image", imgPath, "crop", cropPath,
			"source", crop.Source, "region", crop.Region, "interpolation", crop.Interpolation)
	}
	prog.done("sampled backgrounds", "count", opts.count, "dir", opts.outDir)
	return nil
}
