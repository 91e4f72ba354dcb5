package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-synth/internal/config"
	"github.com/ironsheep/image-synth/internal/server"
)

var (
	version = "dev"     // semantic version
	commit  = "unknown" // git commit SHA
	date    = "unknown" // build timestamp
)

// SetVersion sets the version information displayed by --version and reported
// by the MCP server.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
	server.Version = v
}

// rootOpts holds the persistent flags and the configuration they resolve to.
type rootOpts struct {
	configPath string
	seed       uint64
	verbose    bool

	cfg config.Config
}

// newRand returns a PCG source seeded with seed, or from the clock when seed
// is zero.
func (o *rootOpts) newRand() *rand.Rand {
	seed := o.cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1))
}

// NewRootCommand builds the image-synth command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOpts{cfg: config.Default()}

	root := &cobra.Command{
		Use:   "image-synth",
		Short: "image-synth generates synthetic training images",
		Long: `image-synth samples random background crops, tiles images into collages and
projects foreground images onto backgrounds with a perspective transform.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				cfg, err := config.Load(opts.configPath)
				if err != nil {
					return err
				}
				opts.cfg = cfg
			}
			if cmd.Flags().Changed("seed") {
				opts.cfg.Seed = opts.seed
			}

			level := opts.cfg.Level()
			if opts.verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			if opts.configPath != "" {
				logger.Debug("loaded config", "path", opts.configPath)
			}
			cmd.SetContext(withLogger(cmd.Context(), logger))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("image-synth %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "TOML configuration file")
	flags.Uint64Var(&opts.seed, "seed", 0, "random seed (0 seeds from the clock)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newSampleCmd(opts))
	root.AddCommand(newCollageCmd(opts))
	root.AddCommand(newOverlayCmd(opts))
	root.AddCommand(newServeCmd(opts))

	return root
}

// Execute runs the image-synth CLI.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
