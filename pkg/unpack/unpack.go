// Package unpack turns an uploaded archive into files on the remote host.
//
// Everything happens in one remote shell invocation whose steps are joined
// with "&&": cd into the target, pre commands, unzip, rm, post commands.
// A failing step stops the chain, so post commands such as a service
// restart never run against a half deployed tree.
package unpack

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/williamokano/gulf/pkg/transport"
)

// Plan describes one remote unpack
type Plan struct {
	RemoteArchive string   // absolute path of the uploaded archive
	Pre           []string // run in the archive's directory before unzip
	Post          []string // run after the archive is removed
}

// Sequence returns the remote steps in execution order
func (p Plan) Sequence() []string {
	steps := make([]string, 0, len(p.Pre)+len(p.Post)+3)
	steps = append(steps, "cd "+path.Dir(p.RemoteArchive))
	steps = append(steps, p.Pre...)
	steps = append(steps, "unzip -o "+p.RemoteArchive, "rm "+p.RemoteArchive)
	steps = append(steps, p.Post...)
	return steps
}

// Command returns the sequence as a single short-circuiting shell line
func (p Plan) Command() string {
	return strings.Join(p.Sequence(), " && ")
}

// Unpacker runs plans over a transport
type Unpacker struct {
	transport transport.Transport
	logger    zerolog.Logger
}

// New creates an unpacker
func New(t transport.Transport, logger zerolog.Logger) *Unpacker {
	return &Unpacker{transport: t, logger: logger}
}

// Run executes the plan. Any failure is reported as ErrInflateFailed with
// the remote exit status when there is one.
func (u *Unpacker) Run(ctx context.Context, p Plan) error {
	command := p.Command()
	u.logger.Info().Str("command", command).Msg("Inflating archive")

	err := u.transport.Exec(ctx, command)
	if err == nil {
		return nil
	}

	var exitErr *transport.ExitError
	if errors.As(err, &exitErr) {
		return transport.InflateFailed(exitErr.Code, exitErr.Err)
	}
	return transport.InflateFailed(transport.NoExitCode, err)
}
