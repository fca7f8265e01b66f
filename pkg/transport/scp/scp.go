package scp

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/williamokano/gulf/pkg/runner"
	"github.com/williamokano/gulf/pkg/transport"
)

// Helper is the credential helper wrapping scp and ssh when a password is set
const Helper = "sshpass"

// Transport shells out to the scp and ssh binaries
type Transport struct {
	opts   transport.Options
	runner runner.Runner
	logger zerolog.Logger
}

func init() {
	transport.Register("scp", func(ctx context.Context, opts transport.Options) (transport.Transport, error) {
		return New(opts)
	})
}

// New creates an scp transport. Without an explicit runner commands run
// through os/exec.
func New(opts transport.Options) (*Transport, error) {
	if opts.Host == "" || opts.User == "" {
		return nil, transport.ErrInvalidConfig
	}

	r := opts.Runner
	if r == nil {
		r = runner.NewExec(opts.Logger)
	}

	return &Transport{
		opts:   opts,
		runner: r,
		logger: opts.Logger,
	}, nil
}

func (t *Transport) Name() string { return "scp" }

// Upload copies localPath to user@host:remoteDir with scp -v
func (t *Transport) Upload(ctx context.Context, localPath, remoteDir string) error {
	target := t.opts.Machine() + ":" + remoteDir

	args := []string{"-v"}
	if t.opts.Port != 0 {
		args = append(args, "-P", strconv.Itoa(t.opts.Port))
	}
	args = append(args, t.identityArgs()...)
	args = append(args, localPath, target)

	t.logger.Info().
		Str("archive", localPath).
		Str("target", target).
		Msg("Copying archive")

	res, err := t.runner.Run(ctx, t.wrap(runner.Command{Name: "scp", Args: args}))
	if err != nil {
		return transport.UploadFailed(transport.NoExitCode, err)
	}
	if res.ExitCode != 0 {
		return transport.UploadFailed(res.ExitCode, nil)
	}

	return nil
}

// Exec runs command through ssh as a single argument
func (t *Transport) Exec(ctx context.Context, command string) error {
	var args []string
	if t.opts.Port != 0 {
		args = append(args, "-p", strconv.Itoa(t.opts.Port))
	}
	args = append(args, t.identityArgs()...)
	args = append(args, t.opts.Machine(), command)

	res, err := t.runner.Run(ctx, t.wrap(runner.Command{Name: "ssh", Args: args}))
	if err != nil {
		return transport.CommandFailed(transport.NoExitCode, err)
	}
	if res.ExitCode != 0 {
		return transport.CommandFailed(res.ExitCode, nil)
	}

	return nil
}

// Close is a no-op, every call is its own process
func (t *Transport) Close() error {
	return nil
}

func (t *Transport) identityArgs() []string {
	if t.opts.IdentityFile == "" {
		return nil
	}
	return []string{"-i", t.opts.IdentityFile}
}

// wrap routes cmd through sshpass when a password is configured. The
// password travels in SSHPASS rather than on the command line.
func (t *Transport) wrap(cmd runner.Command) runner.Command {
	if t.opts.Password == "" {
		return cmd
	}
	return runner.Command{
		Name: Helper,
		Args: append([]string{"-e", cmd.Name}, cmd.Args...),
		Env:  append(cmd.Env, "SSHPASS="+t.opts.Password),
	}
}
