package config

import (
	"path"
	"strings"
)

// DefaultFilename is the configuration file gulf looks for in the project root
const DefaultFilename = "gulf.json"

// PasswordEnv is consulted when the config file carries no password
const PasswordEnv = "GULF_PASSWORD"

// CredentialHelper is the program that feeds a password to scp and ssh
const CredentialHelper = "sshpass"

// Transport names
const (
	TransportSCP   = "scp"
	TransportSFTP  = "sftp"
	TransportLocal = "local"
)

// Config is the deployment configuration. It is built once by Load and
// must not be modified afterwards.
type Config struct {
	Host         string   `json:"host"`
	Username     string   `json:"username"`
	Path         string   `json:"path"`                    // remote directory, always ends with "/"
	Password     string   `json:"password,omitempty"`      // optional, falls back to GULF_PASSWORD
	Exclude      []string `json:"exclude,omitempty"`       // bare names, relative paths or path prefixes
	Pre          []string `json:"pre,omitempty"`           // remote commands run before unzip
	Post         []string `json:"post,omitempty"`          // remote commands run after unzip
	Port         int      `json:"port,omitempty"`          // 0 means the transport default
	IdentityFile string   `json:"identity_file,omitempty"` // private key
	KnownHosts   string   `json:"known_hosts,omitempty"`   // sftp only
	Transport    string   `json:"transport,omitempty"`     // scp (default), sftp or local
	LogLevel     string   `json:"log_level,omitempty"`     // debug, info, warn, error (default: info)
	LogFormat    string   `json:"log_format,omitempty"`    // console, json (default: console)
}

// Machine returns the ssh login in user@host form
func (c *Config) Machine() string {
	return c.Username + "@" + c.Host
}

// Target returns the scp destination in user@host:path form
func (c *Config) Target() string {
	return c.Machine() + ":" + c.Path
}

// RemoteArchive returns where an uploaded file named name ends up
func (c *Config) RemoteArchive(name string) string {
	return path.Join(c.Path, name)
}

// GetTransport returns the transport name (defaults to scp)
func (c *Config) GetTransport() string {
	if c.Transport != "" {
		return c.Transport
	}
	return TransportSCP
}

// GetLogLevel returns the log level (defaults to info)
func (c *Config) GetLogLevel() string {
	if c.LogLevel != "" {
		return c.LogLevel
	}
	return "info"
}

// GetLogFormat returns the log format (defaults to console)
func (c *Config) GetLogFormat() string {
	if c.LogFormat != "" {
		return c.LogFormat
	}
	return "console"
}

// NeedsCredentialHelper reports whether the configured transport has to go
// through sshpass to use the password.
func (c *Config) NeedsCredentialHelper() bool {
	return c.Password != "" && c.GetTransport() == TransportSCP
}

// NormalizePath strips every trailing slash and appends exactly one.
func NormalizePath(p string) string {
	return strings.TrimRight(p, "/") + "/"
}
