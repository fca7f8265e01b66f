package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/williamokano/gulf/pkg/runner"
	"github.com/williamokano/gulf/pkg/transport"
)

// Transport deploys to a directory on this machine. The remote directory
// is a local path and commands run through sh -c, which makes it useful
// for staging directories and for exercising hooks without a server.
type Transport struct {
	runner runner.Runner
	logger zerolog.Logger
}

func init() {
	transport.Register("local", func(ctx context.Context, opts transport.Options) (transport.Transport, error) {
		return New(opts), nil
	})
}

// New creates a local transport
func New(opts transport.Options) *Transport {
	r := opts.Runner
	if r == nil {
		r = runner.NewExec(opts.Logger)
	}
	return &Transport{runner: r, logger: opts.Logger}
}

func (t *Transport) Name() string { return "local" }

// Upload copies localPath into remoteDir
func (t *Transport) Upload(ctx context.Context, localPath, remoteDir string) error {
	if err := copyFile(localPath, remoteDir); err != nil {
		return transport.UploadFailed(transport.NoExitCode, err)
	}
	return nil
}

func copyFile(sourcePath, destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", destDir, err)
	}

	source, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer source.Close()

	destPath := filepath.Join(destDir, filepath.Base(sourcePath))
	if same, err := sameFile(source, destPath); err != nil {
		return err
	} else if same {
		return nil
	}

	dest, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dest.Close()

	if _, err := io.Copy(dest, source); err != nil {
		os.Remove(destPath) // Clean up partial file
		return err
	}

	return dest.Close()
}

// sameFile reports whether destPath already is the open source file,
// in which case creating it would truncate the source.
func sameFile(source *os.File, destPath string) (bool, error) {
	destInfo, err := os.Stat(destPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	sourceInfo, err := source.Stat()
	if err != nil {
		return false, err
	}
	return os.SameFile(sourceInfo, destInfo), nil
}

// Exec runs command with sh -c
func (t *Transport) Exec(ctx context.Context, command string) error {
	res, err := t.runner.Run(ctx, runner.Command{Name: "sh", Args: []string{"-c", command}})
	if err != nil {
		return transport.CommandFailed(transport.NoExitCode, err)
	}
	if res.ExitCode != 0 {
		return transport.CommandFailed(res.ExitCode, nil)
	}
	return nil
}

// Close is a no-op for local transport
func (t *Transport) Close() error {
	return nil
}
