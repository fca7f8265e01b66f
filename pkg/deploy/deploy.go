package deploy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/williamokano/gulf/pkg/archive"
	"github.com/williamokano/gulf/pkg/config"
	"github.com/williamokano/gulf/pkg/runner"
	"github.com/williamokano/gulf/pkg/transport"
	"github.com/williamokano/gulf/pkg/unpack"

	// Import transports to register them
	_ "github.com/williamokano/gulf/pkg/transport/local"
	_ "github.com/williamokano/gulf/pkg/transport/scp"
	_ "github.com/williamokano/gulf/pkg/transport/sftp"
)

// TransportFactory opens the transport for a loaded config
type TransportFactory func(ctx context.Context, cfg *config.Config) (transport.Transport, error)

// Options configures a Deployer. Zero values fall back to the defaults of
// the command line tool.
type Options struct {
	Root          string          // project root, defaults to the working directory
	ConfigFile    string          // relative to Root unless absolute, defaults to gulf.json
	ArchivePath   string          // defaults to <tmp>/gulf.zip
	ConfigOptions []config.Option // passed to config.Load
	DryRun        bool            // stop after archiving and log the remote command

	// Runner executes scp/ssh for the default transport factory
	Runner runner.Runner
	// NewTransport replaces the registry lookup on cfg.Transport
	NewTransport TransportFactory
	// LoggerFor is called once the config is loaded, so its log settings
	// can take effect for the remaining stages
	LoggerFor func(cfg *config.Config) zerolog.Logger

	Logger zerolog.Logger
}

// Deployer runs one configure, archive, upload, unpack sequence
type Deployer struct {
	opts        Options
	logger      zerolog.Logger
	state       State
	transitions []State
}

// New creates a deployer in the idle state
func New(opts Options) *Deployer {
	if opts.ConfigFile == "" {
		opts.ConfigFile = config.DefaultFilename
	}
	if opts.ArchivePath == "" {
		opts.ArchivePath = archive.DefaultPath()
	}

	return &Deployer{
		opts:        opts,
		logger:      opts.Logger,
		state:       StateIdle,
		transitions: []State{StateIdle},
	}
}

// State returns the current state
func (d *Deployer) State() State {
	return d.state
}

// Transitions returns every state the run went through, in order
func (d *Deployer) Transitions() []State {
	return append([]State(nil), d.transitions...)
}

func (d *Deployer) enter(s State) {
	d.logger.Debug().Str("from", d.state.String()).Str("to", s.String()).Msg("state transition")
	d.state = s
	d.transitions = append(d.transitions, s)
}

func (d *Deployer) fail(err error) error {
	stage := d.state
	d.enter(StateFailed)
	return &StageError{Stage: stage, Err: err}
}

// Run performs the deployment. It can only be called once.
func (d *Deployer) Run(ctx context.Context) error {
	if d.state.Terminal() {
		return fmt.Errorf("deployment already ran (state %s)", d.state)
	}

	d.enter(StateConfiguring)
	root, err := d.root()
	if err != nil {
		return d.fail(err)
	}

	cfg, err := config.Load(d.configPath(root), d.opts.ConfigOptions...)
	if err != nil {
		return d.fail(err)
	}
	if d.opts.LoggerFor != nil {
		d.logger = d.opts.LoggerFor(cfg)
	}

	d.enter(StateArchiving)
	filter := archive.Filter{
		Exclude:  cfg.Exclude,
		Implicit: []string{filepath.Base(d.opts.ConfigFile), filepath.Base(d.opts.ArchivePath)},
	}
	entries, err := archive.NewBuilder(root, filter, d.logger).Build(ctx, d.opts.ArchivePath)
	if err != nil {
		return d.fail(err)
	}
	d.logger.Debug().Int("files", len(entries)).Msg("archive ready")

	plan := unpack.Plan{
		RemoteArchive: cfg.RemoteArchive(filepath.Base(d.opts.ArchivePath)),
		Pre:           cfg.Pre,
		Post:          cfg.Post,
	}

	if d.opts.DryRun {
		d.logger.Info().
			Str("target", cfg.Target()).
			Str("command", plan.Command()).
			Msg("Dry run, not connecting")
		d.enter(StateDone)
		return nil
	}

	d.enter(StateUploading)
	tr, err := d.newTransport(ctx, cfg)
	if err != nil {
		return d.fail(err)
	}
	defer tr.Close()

	if err := tr.Upload(ctx, d.opts.ArchivePath, cfg.Path); err != nil {
		return d.fail(err)
	}

	d.enter(StateUnpacking)
	if err := unpack.New(tr, d.logger).Run(ctx, plan); err != nil {
		return d.fail(err)
	}

	d.enter(StateDone)
	d.logger.Info().Str("target", cfg.Target()).Msg("Deployment complete")

	return nil
}

func (d *Deployer) root() (string, error) {
	if d.opts.Root != "" {
		return d.opts.Root, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

func (d *Deployer) configPath(root string) string {
	if filepath.IsAbs(d.opts.ConfigFile) {
		return d.opts.ConfigFile
	}
	return filepath.Join(root, d.opts.ConfigFile)
}

func (d *Deployer) newTransport(ctx context.Context, cfg *config.Config) (transport.Transport, error) {
	if d.opts.NewTransport != nil {
		return d.opts.NewTransport(ctx, cfg)
	}

	return transport.New(ctx, cfg.GetTransport(), transport.Options{
		Host:         cfg.Host,
		Port:         cfg.Port,
		User:         cfg.Username,
		Password:     cfg.Password,
		IdentityFile: cfg.IdentityFile,
		KnownHosts:   cfg.KnownHosts,
		Runner:       d.opts.Runner,
		Logger:       d.logger,
	})
}
