package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ItsCxdy/google-maps-scraper/config"
	"github.com/ItsCxdy/google-maps-scraper/utils"
)

// ExitInterrupted is returned by Execute when the run was stopped by a signal.
const ExitInterrupted = 130

var rootCmd = &cobra.Command{
	Use:           "gmaps-scraper",
	Short:         "gmaps-scraper collects business listings from Google Maps searches.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to a JSON5 config file.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console.")
}

// Execute runs the command line and returns the process exit code: 0 on
// success, ExitInterrupted when ctx was cancelled, 1 on any other failure.
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case ctx.Err() != nil:
		fmt.Fprintln(os.Stderr, "\n⚠️  Scraping interrupted by user")
		return ExitInterrupted
	default:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
}

// runEnv is what every command needs before doing work.
type runEnv struct {
	cfg     config.Config
	logger  *utils.Logger
	logFile *os.File
}

func (e *runEnv) Close() {
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

// setup loads the configuration and builds the logger. The log file named by
// the config is opened for appending; failing to open it only costs the file
// output.
func setup() (*runEnv, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	env := &runEnv{cfg: cfg}
	opts := utils.LoggerOptions{Verbose: verbose}
	var logFileErr error
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logFileErr = err
		} else {
			env.logFile = f
			opts.File = f
		}
	}
	env.logger = utils.NewLogger(opts)

	if logFileErr != nil {
		env.logger.Warn("Could not open log file %s: %v", cfg.LogFile, logFileErr)
	}
	return env, nil
}
