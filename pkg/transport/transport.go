package transport

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/williamokano/gulf/pkg/runner"
)

// Transport moves the archive to the remote host and runs commands there
type Transport interface {
	// Name returns the transport name (scp, sftp)
	Name() string

	// Upload copies the local file into remoteDir, keeping its base name.
	// remoteDir ends with a slash.
	Upload(ctx context.Context, localPath string, remoteDir string) error

	// Exec runs a shell command line on the remote host and waits for it
	Exec(ctx context.Context, command string) error

	// Close releases connections
	Close() error
}

// Options describes the remote end and how to authenticate
type Options struct {
	Host         string
	Port         int    // 0 means 22
	User         string
	Password     string // optional
	IdentityFile string // optional: path to private key
	KnownHosts   string // optional: known_hosts file

	Runner runner.Runner // used by transports that shell out
	Stdout io.Writer     // remote command output
	Stderr io.Writer
	Logger zerolog.Logger
}

// Machine returns user@host
func (o Options) Machine() string {
	return o.User + "@" + o.Host
}
