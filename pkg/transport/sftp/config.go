package sftp

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/williamokano/gulf/pkg/transport"
)

const (
	defaultPort = 22
	dialTimeout = 30 * time.Second
)

func address(opts transport.Options) string {
	port := opts.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(opts.Host, strconv.Itoa(port))
}

// clientConfig builds the ssh client configuration from the options
func clientConfig(opts transport.Options) (*ssh.ClientConfig, error) {
	cfg := &ssh.ClientConfig{
		User:    opts.User,
		Timeout: dialTimeout,
	}

	if opts.KnownHosts != "" {
		callback, err := knownhosts.New(opts.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("failed to load known hosts: %w", err)
		}
		cfg.HostKeyCallback = callback
	} else {
		opts.Logger.Warn().Msg("no known_hosts configured, host key is not verified")
		cfg.HostKeyCallback = ssh.InsecureIgnoreHostKey()
	}

	if opts.IdentityFile != "" {
		key, err := os.ReadFile(opts.IdentityFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read SSH key: %w", err)
		}

		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("failed to parse SSH key: %w", err)
		}

		cfg.Auth = append(cfg.Auth, ssh.PublicKeys(signer))
	}

	if opts.Password != "" {
		password := opts.Password
		cfg.Auth = append(cfg.Auth,
			ssh.Password(password),
			ssh.KeyboardInteractive(func(name, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		)
	}

	if len(cfg.Auth) == 0 {
		return nil, fmt.Errorf("%w: sftp transport needs a password or an identity file", transport.ErrInvalidConfig)
	}

	return cfg, nil
}
