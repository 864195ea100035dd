// Package main is the entry point for songdata.
// songdata extracts a compact musical summary (tempo, melody, bassline,
// rhythm, lead) from the audio track of video or audio files.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/austinkregel/local-media/songdata/internal/cli"
	"github.com/austinkregel/local-media/songdata/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

// CLI defines the command-line interface
type CLI struct {
	Config  string `short:"c" type:"path" placeholder:"DIR" help:"Configuration directory (default: ~/.config/songdata)"`
	Verbose bool   `help:"Enable verbose logging"`

	Extract ExtractCmd `cmd:"" help:"Extract song data from video or audio files"`
	Preview PreviewCmd `cmd:"" help:"Render song data as audio"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// appContext carries state shared by all commands
type appContext struct {
	ctx       context.Context
	configDir string
	verbose   bool

	cfg *config.Config
}

func main() {
	cliArgs := &CLI{}
	kctx := kong.Parse(cliArgs,
		kong.Name("songdata"),
		kong.Description("Extract tempo, melody, bassline, rhythm and lead from a video's audio"),
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Create context that cancels on interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	if err := kctx.Run(newAppContext(ctx, cliArgs)); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

func newAppContext(ctx context.Context, cliArgs *CLI) *appContext {
	configDir := cliArgs.Config
	if configDir == "" {
		configDir = config.DefaultDir()
	}

	return &appContext{
		ctx:       ctx,
		configDir: configDir,
		verbose:   cliArgs.Verbose,
	}
}

// loadConfig loads the configuration on first use
func (a *appContext) loadConfig() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	configMgr := config.NewManager(a.configDir)
	if err := configMgr.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if a.verbose {
		log.Printf("[CONFIG] songdata %s using %s", Version, configMgr.GetPath())
	}

	a.cfg = configMgr.Get()
	return a.cfg, nil
}

// VersionCmd prints version information
type VersionCmd struct{}

// Run prints the version
func (VersionCmd) Run() error {
	cli.PrintVersion(Version)
	return nil
}
