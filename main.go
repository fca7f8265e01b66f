package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/williamokano/gulf/pkg/config"
	"github.com/williamokano/gulf/pkg/deploy"
	"github.com/williamokano/gulf/pkg/logger"
	"github.com/williamokano/gulf/pkg/transport"
)

// CLI is the command line of gulf. Run without arguments from the project
// root to deploy it.
type CLI struct {
	Config    string `short:"c" help:"Configuration file, relative to the current directory." default:"gulf.json"`
	EnvFile   string `name:"env-file" help:"Load environment variables (e.g. GULF_PASSWORD) from this file."`
	Archive   string `help:"Where to write the archive (default: <tmp>/gulf.zip)."`
	LogLevel  string `name:"log-level" help:"debug, info, warn or error. Overrides log_level from the config file."`
	LogFormat string `name:"log-format" help:"console or json. Overrides log_format from the config file."`
	DryRun    bool   `name:"dry-run" help:"Build the archive and print the remote commands without connecting."`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("gulf"),
		kong.Description("Deploy the current directory to a remote host over SSH."),
	)
	if err != nil {
		fmt.Println(err)
		return 1
	}
	if _, err := parser.Parse(args); err != nil {
		fmt.Println(err)
		return 1
	}

	if cli.EnvFile != "" {
		if err := godotenv.Load(cli.EnvFile); err != nil {
			fmt.Printf("Failed to load %s: %v\n", cli.EnvFile, err)
			return 1
		}
	}

	logger.Init(orDefault(cli.LogLevel, "info"), orDefault(cli.LogFormat, "console"))
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := deploy.New(deploy.Options{
		ConfigFile:  cli.Config,
		ArchivePath: cli.Archive,
		DryRun:      cli.DryRun,
		Logger:      *log,
		LoggerFor: func(cfg *config.Config) zerolog.Logger {
			logger.Init(orDefault(cli.LogLevel, cfg.GetLogLevel()), orDefault(cli.LogFormat, cfg.GetLogFormat()))
			return *logger.Get()
		},
	})

	if err := d.Run(ctx); err != nil {
		event := logger.Get().Error()
		var stageErr *deploy.StageError
		if errors.As(err, &stageErr) {
			event = event.Str("stage", stageErr.Stage.String())
		}
		if code := transport.ExitCode(err); code != transport.NoExitCode {
			event = event.Int("exit_code", code)
		}
		event.Msg(err.Error())
		return 1
	}

	return 0
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
