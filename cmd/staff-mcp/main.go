package main

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/staff-tracker-mcp/internal/config"
	"github.com/ironsheep/staff-tracker-mcp/internal/imaging"
	"github.com/ironsheep/staff-tracker-mcp/internal/server"
	"github.com/ironsheep/staff-tracker-mcp/internal/simulate"
	"github.com/ironsheep/staff-tracker-mcp/internal/staves"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// runContext is bound into every command's Run method.
type runContext struct {
	cfg    config.Config
	logger *slog.Logger
	stdout io.Writer
}

type CLI struct {
	Serve    ServeCmd    `cmd:"" default:"1" help:"Serve MCP over stdin/stdout (default)."`
	Detect   DetectCmd   `cmd:"" help:"Track staves in an image and print them as JSON."`
	Mask     MaskCmd     `cmd:"" help:"Write the horizontal edge mask of an image."`
	Render   RenderCmd   `cmd:"" help:"Write an image with tracked staves drawn over it."`
	Simulate SimulateCmd `cmd:"" help:"Run the filter on a synthetic line and plot it."`
	Version  VersionCmd  `cmd:"" help:"Print version information."`
}

type ServeCmd struct{}

func (c *ServeCmd) Run(rc *runContext) error {
	rc.logger.Debug("staff tracker MCP server starting",
		"version", Version, "build_time", BuildTime, "commit", GitCommit)
	srv := server.New(rc.cfg, server.WithLogger(rc.logger), server.WithVersion(Version))
	return srv.Run()
}

// TrackFlags are shared by the commands that run the tracker.
type TrackFlags struct {
	Path      string  `arg:"" type:"existingfile" help:"Image to scan."`
	Threshold int     `default:"${threshold}" help:"Luma difference that marks an edge."`
	Tolerance float32 `default:"${tolerance}" help:"Match gate in rows."`
	MinLength int     `default:"${min_length}" help:"Hide staves seen in fewer columns."`
}

func (f TrackFlags) validate() error {
	if err := config.CheckThreshold(f.Threshold); err != nil {
		return fmt.Errorf("--threshold: %w", err)
	}
	if err := config.CheckTolerance(f.Tolerance); err != nil {
		return fmt.Errorf("--tolerance: %w", err)
	}
	if err := config.CheckMinLength(f.MinLength); err != nil {
		return fmt.Errorf("--min-length: %w", err)
	}
	return nil
}

// tracked is the outcome of one scan.
type tracked struct {
	img    image.Image
	mask   *imaging.Mask
	staves []*staves.Staff
}

func (f TrackFlags) track(rc *runContext) (*tracked, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	img, err := imaging.NewImageCache().Load(f.Path)
	if err != nil {
		return nil, err
	}
	mask := imaging.NewEdgeMask(img, f.Threshold)
	list, err := staves.Detect(mask,
		staves.WithTolerance(f.Tolerance),
		staves.WithLogger(rc.logger.With("path", f.Path)))
	if err != nil {
		return nil, err
	}
	return &tracked{img: img, mask: mask, staves: list}, nil
}

type DetectCmd struct {
	TrackFlags `embed:""`
	History    bool `help:"Include every column observation."`
}

func (c *DetectCmd) Run(rc *runContext) error {
	t, err := c.track(rc)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(rc.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(staves.Summarize(t.staves, t.mask.Width(), t.mask.Height(), c.MinLength, c.History))
}

type MaskCmd struct {
	Path      string `arg:"" type:"existingfile" help:"Image to scan."`
	Output    string `short:"o" required:"" help:"Output image path."`
	Threshold int    `default:"${threshold}" help:"Luma difference that marks an edge."`
}

func (c *MaskCmd) Run(rc *runContext) error {
	if err := config.CheckThreshold(c.Threshold); err != nil {
		return fmt.Errorf("--threshold: %w", err)
	}
	img, err := imaging.NewImageCache().Load(c.Path)
	if err != nil {
		return err
	}
	mask := imaging.NewEdgeMask(img, c.Threshold)
	if err := imaging.SaveImage(mask.Image(), c.Output); err != nil {
		return err
	}
	rc.logger.Info("mask written", "output", c.Output, "edge_pixels", mask.Count())
	return nil
}

type RenderCmd struct {
	TrackFlags `embed:""`
	Output     string `short:"o" required:"" help:"Output image path."`
}

func (c *RenderCmd) Run(rc *runContext) error {
	t, err := c.track(rc)
	if err != nil {
		return err
	}
	list := staves.Filter(t.staves, c.MinLength)
	if err := imaging.SaveImage(imaging.RenderStaves(t.img, list), c.Output); err != nil {
		return err
	}
	rc.logger.Info("staves rendered", "output", c.Output, "staves", len(list))
	return nil
}

type SimulateCmd struct {
	Output string `short:"o" required:"" help:"Output PNG path."`
	Seed   uint64 `default:"1" help:"Random seed."`
	Length int    `default:"500" help:"Number of columns."`
	Noise  int    `default:"3" help:"Largest measurement jitter in rows."`
}

func (c *SimulateCmd) Run(rc *runContext) error {
	if c.Length < 1 {
		return fmt.Errorf("--length must be at least 1, got %d", c.Length)
	}
	cfg := simulate.DefaultConfig()
	cfg.Seed = c.Seed
	cfg.Length = c.Length
	cfg.Noise = c.Noise

	samples, err := simulate.Run(cfg)
	if err != nil {
		return err
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return err
	}
	if err := simulate.Plot(samples, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	enc := json.NewEncoder(rc.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(simulate.Summarize(samples))
}

type VersionCmd struct{}

func (c *VersionCmd) Run(rc *runContext) error {
	fmt.Fprintf(rc.stdout, "staff-tracker-mcp %s\n", Version)
	fmt.Fprintf(rc.stdout, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(rc.stdout, "  Git commit: %s\n", GitCommit)
	return nil
}

// newParser builds the command line parser. Flag defaults come from rc.cfg.
func newParser(cli *CLI, rc *runContext, opts ...kong.Option) (*kong.Kong, error) {
	opts = append([]kong.Option{
		kong.Name("staff-tracker-mcp"),
		kong.Description("Kalman-filter staff line tracker, served over MCP or run from the command line.\n\nEnvironment: STAFF_MCP_LOG_LEVEL, STAFF_MCP_EDGE_THRESHOLD, STAFF_MCP_MATCH_TOLERANCE, STAFF_MCP_MIN_STAFF_LENGTH."),
		kong.UsageOnError(),
		kong.HelpOptions{Compact: true, FlagsLast: true},
		kong.Vars{
			"threshold":  strconv.Itoa(rc.cfg.EdgeThreshold),
			"tolerance":  strconv.FormatFloat(float64(rc.cfg.MatchTolerance), 'g', -1, 32),
			"min_length": strconv.Itoa(rc.cfg.MinStaffLength),
		},
		kong.Bind(rc),
	}, opts...)
	return kong.New(cli, opts...)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "staff-tracker-mcp: %v\n", err)
		os.Exit(2)
	}

	// stdout carries the MCP protocol, so logs go to stderr.
	rc := &runContext{
		cfg:    cfg,
		logger: cfg.Logger(os.Stderr),
		stdout: os.Stdout,
	}

	var cli CLI
	parser, err := newParser(&cli, rc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "staff-tracker-mcp: %v\n", err)
		os.Exit(2)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	if err := ctx.Run(); err != nil {
		rc.logger.Error("command failed", "command", ctx.Command(), "err", err)
		os.Exit(1)
	}
}
