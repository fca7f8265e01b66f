package sftp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"

	"github.com/williamokano/gulf/pkg/transport"
)

// Transport talks SSH and SFTP natively, no external binaries involved.
// The connection is opened on first use and shared by Upload and Exec.
type Transport struct {
	opts       transport.Options
	config     *ssh.ClientConfig
	sshClient  *ssh.Client
	sftpClient *sftp.Client
	logger     zerolog.Logger
}

func init() {
	transport.Register("sftp", func(ctx context.Context, opts transport.Options) (transport.Transport, error) {
		return New(opts)
	})
}

// New creates an SFTP transport
func New(opts transport.Options) (*Transport, error) {
	if opts.Host == "" || opts.User == "" {
		return nil, transport.ErrInvalidConfig
	}

	cfg, err := clientConfig(opts)
	if err != nil {
		return nil, err
	}

	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	return &Transport{
		opts:   opts,
		config: cfg,
		logger: opts.Logger,
	}, nil
}

func (t *Transport) Name() string { return "sftp" }

func (t *Transport) connect(ctx context.Context) error {
	if t.sshClient != nil {
		return nil
	}

	addr := address(t.opts)
	t.logger.Debug().Str("addr", addr).Msg("connecting")

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect %s: %w", addr, err)
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, t.config)
	if err != nil {
		conn.Close()
		return fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}
	t.sshClient = ssh.NewClient(c, chans, reqs)

	return nil
}

// Upload streams localPath into remoteDir over SFTP, creating remoteDir
// when it does not exist yet.
func (t *Transport) Upload(ctx context.Context, localPath, remoteDir string) error {
	if err := t.upload(ctx, localPath, remoteDir); err != nil {
		return transport.UploadFailed(transport.NoExitCode, err)
	}
	return nil
}

func (t *Transport) upload(ctx context.Context, localPath, remoteDir string) error {
	if err := t.connect(ctx); err != nil {
		return err
	}

	if t.sftpClient == nil {
		client, err := sftp.NewClient(t.sshClient)
		if err != nil {
			return fmt.Errorf("sftp init: %w", err)
		}
		t.sftpClient = client
	}

	remotePath := path.Join(remoteDir, filepath.Base(localPath))
	t.logger.Info().
		Str("archive", localPath).
		Str("target", t.opts.Machine()+":"+remotePath).
		Msg("Copying archive")

	localFile, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer localFile.Close()

	if err := t.sftpClient.MkdirAll(remoteDir); err != nil {
		return fmt.Errorf("mkdir %s: %w", remoteDir, err)
	}

	remoteFile, err := t.sftpClient.Create(remotePath)
	if err != nil {
		return fmt.Errorf("create %s: %w", remotePath, err)
	}
	defer remoteFile.Close()

	stop := context.AfterFunc(ctx, func() { t.sshClient.Close() })
	defer stop()

	if _, err := io.Copy(remoteFile, localFile); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("upload: %w", err)
	}

	return remoteFile.Close()
}

// Exec runs command in a new session, wired to the configured writers
func (t *Transport) Exec(ctx context.Context, command string) error {
	if err := t.connect(ctx); err != nil {
		return transport.CommandFailed(transport.NoExitCode, err)
	}

	session, err := t.sshClient.NewSession()
	if err != nil {
		return transport.CommandFailed(transport.NoExitCode, fmt.Errorf("new session: %w", err))
	}
	defer session.Close()

	session.Stdout = t.opts.Stdout
	session.Stderr = t.opts.Stderr

	stop := context.AfterFunc(ctx, func() { session.Close() })
	defer stop()

	t.logger.Debug().Str("command", command).Msg("running remote command")

	err = session.Run(command)
	if err == nil {
		return nil
	}

	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		return transport.CommandFailed(exitErr.ExitStatus(), nil)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return transport.CommandFailed(transport.NoExitCode, ctxErr)
	}
	return transport.CommandFailed(transport.NoExitCode, err)
}

// Close releases the SFTP and SSH connections
func (t *Transport) Close() error {
	if t.sftpClient != nil {
		t.sftpClient.Close()
		t.sftpClient = nil
	}
	if t.sshClient != nil {
		t.sshClient.Close()
		t.sshClient = nil
	}
	return nil
}
