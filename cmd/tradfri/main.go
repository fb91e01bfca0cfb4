package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/angristan/tradfri-tui/internal/config"
	"github.com/angristan/tradfri-tui/internal/models"
)

const usage = `Usage: tradfri [flags] <command> [args]

Commands:
  status                          list devices and groups
  power <id> on|off               switch a bulb
  brightness <id> <1-100>         dim a bulb
  color <id> <name>               set a bulb color from the palette
  group-power <id> on|off         switch a group
  group-brightness <id> <1-100>   dim a group
  auth <host> <security-code>     register with a gateway
  discover                        find gateways on the local network
  colors                          print the color palette
  mqtt                            publish gateway state to an MQTT broker
  tui                             open the dashboard (default)

Flags:
`

// options holds the global flags
type options struct {
	configPath string
	host       string
	demo       bool
	logLevel   string
	logJSON    bool
	user       string
	timeout    time.Duration
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options

	fs := flag.NewFlagSet("tradfri", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.host, "host", "", "Gateway host to use (default: last used)")
	fs.BoolVar(&opts.demo, "demo", os.Getenv("TRADFRI_DEMO") != "", "Run against an in-memory demo gateway")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&opts.logJSON, "log-json", false, "Log as JSON")
	fs.StringVar(&opts.user, "user", "", "API user to register with auth (default: generated)")
	fs.DurationVar(&opts.timeout, "timeout", 5*time.Second, "How long discover browses for gateways")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	setupLogging(stderr, level, cfg.Log.JSON || opts.logJSON)

	command, rest := "tui", []string(nil)
	if fs.NArg() > 0 {
		command, rest = fs.Arg(0), fs.Args()[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli{cfg: cfg, opts: opts, stdout: stdout}
	if err := app.dispatch(ctx, command, rest); err != nil {
		return report(stderr, err)
	}
	return 0
}

// report prints err and returns the exit status for it
func report(stderr io.Writer, err error) int {
	var verr *models.ValidationError
	var uerr usageError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(stderr, "[-] tradfri: %v\n", verr)
	case errors.As(err, &uerr):
		fmt.Fprintf(stderr, "%v\n\n%s", uerr, usage)
		return 2
	default:
		log.Error().Err(err).Msg("Command failed")
	}
	return 1
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

func setupLogging(out io.Writer, level string, useJSON bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05.000",
		})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
