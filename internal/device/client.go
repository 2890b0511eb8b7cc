// Package device connects to a remote machine over SSH, so a Steam library
// on a Steam Deck or similar box can be edited from the machine running the
// tool. It implements the steam package's FS over SFTP and Runner over SSH
// sessions.
package device

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"github.com/dorvan/moonlight-steam-shortcuts/internal/log"
)

// Client handles SSH/SFTP connections to a remote device.
type Client struct {
	host    string
	port    int
	user    string
	keyFile string
	timeout time.Duration

	sshClient  *ssh.Client
	sftpClient *sftp.Client
	log        zerolog.Logger
}

// NewClient prepares a client; Connect establishes the connection.
func NewClient(host string, port int, user, keyFile string, timeout time.Duration) *Client {
	if port == 0 {
		port = 22
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		host:    host,
		port:    port,
		user:    user,
		keyFile: keyFile,
		timeout: timeout,
		log:     log.WithComponent("device"),
	}
}

// Address returns the connection target as user@host:port.
func (c *Client) Address() string {
	return fmt.Sprintf("%s@%s:%d", c.user, c.host, c.port)
}

// Connect establishes the SSH and SFTP connections.
func (c *Client) Connect() error {
	auth, agentConn, err := c.authMethods()
	if agentConn != nil {
		defer agentConn.Close()
	}
	if err != nil {
		return err
	}

	config := &ssh.ClientConfig{
		User:            c.user,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         c.timeout,
	}

	addr := fmt.Sprintf("%s:%d", c.host, c.port)
	sshClient, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return fmt.Errorf("SSH connection to %s failed: %w", addr, err)
	}
	c.sshClient = sshClient

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return fmt.Errorf("SFTP connection to %s failed: %w", addr, err)
	}
	c.sftpClient = sftpClient

	c.log.Debug().Str("target", c.Address()).Msg("connected")
	return nil
}

// authMethods collects the ways to authenticate: a running ssh-agent first,
// then the configured or default private key. The returned conn, if any,
// must stay open until the handshake is done.
func (c *Client) authMethods() ([]ssh.AuthMethod, net.Conn, error) {
	var methods []ssh.AuthMethod
	var agentConn net.Conn

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			agentConn = conn
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	signer, err := c.loadKey()
	if err == nil {
		methods = append(methods, ssh.PublicKeys(signer))
	} else if c.keyFile != "" || len(methods) == 0 {
		// An explicitly configured key has to load even when an agent runs.
		return nil, agentConn, err
	}

	return methods, agentConn, nil
}

// loadKey reads the configured private key, or falls back to the usual
// default key locations.
func (c *Client) loadKey() (ssh.Signer, error) {
	candidates := []string{c.keyFile}
	if c.keyFile == "" {
		candidates = []string{"~/.ssh/id_ed25519", "~/.ssh/id_rsa"}
	}

	for _, candidate := range candidates {
		key, err := os.ReadFile(expandPath(candidate))
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("parse SSH key %s: %w", candidate, err)
		}
		return signer, nil
	}

	if c.keyFile != "" {
		return nil, fmt.Errorf("read SSH key %s: not found", c.keyFile)
	}
	return nil, fmt.Errorf("no SSH key found, tried ~/.ssh/id_ed25519 and ~/.ssh/id_rsa")
}

// Close closes all connections.
func (c *Client) Close() {
	if c.sftpClient != nil {
		c.sftpClient.Close()
		c.sftpClient = nil
	}
	if c.sshClient != nil {
		c.sshClient.Close()
		c.sshClient = nil
	}
}

// Home returns the remote home directory, which is where the SFTP session
// starts.
func (c *Client) Home() (string, error) {
	return c.sftpClient.Getwd()
}

// ReadFile reads a remote file.
func (c *Client) ReadFile(path string) ([]byte, error) {
	f, err := c.sftpClient.Open(toSlash(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// WriteFileAtomic writes a remote file through a temp name and renames it
// into place, mirroring what renameio does locally.
func (c *Client) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	path = toSlash(path)
	tmp := fmt.Sprintf("%s.tmp.%d", path, time.Now().UnixNano())

	f, err := c.sftpClient.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		c.sftpClient.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		c.sftpClient.Remove(tmp)
		return err
	}

	if err := c.sftpClient.Chmod(tmp, perm); err != nil {
		c.log.Warn().Err(err).Str("path", tmp).Msg("failed to set permissions")
	}

	return replaceFile(c.sftpClient, tmp, path)
}

// renamer is the slice of the SFTP client replaceFile needs.
type renamer interface {
	PosixRename(oldname, newname string) error
	Rename(oldname, newname string) error
	Remove(path string) error
}

// replaceFile moves tmp over path. POSIX rename replaces the target
// atomically; servers without the extension need the target moved out of
// the way first. Once the target is gone the temp file holds the only
// copy, so a failed rename leaves it in place.
func replaceFile(r renamer, tmp, path string) error {
	if err := r.PosixRename(tmp, path); err == nil {
		return nil
	}

	_ = r.Remove(path)
	if err := r.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: content left at %s: %w", path, tmp, err)
	}
	return nil
}

// ReadDir lists a remote directory.
func (c *Client) ReadDir(path string) ([]os.FileInfo, error) {
	return c.sftpClient.ReadDir(toSlash(path))
}

// Stat stats a remote path.
func (c *Client) Stat(path string) (os.FileInfo, error) {
	return c.sftpClient.Stat(toSlash(path))
}

// MkdirAll creates a remote directory and all its parents.
func (c *Client) MkdirAll(path string, _ os.FileMode) error {
	return c.sftpClient.MkdirAll(toSlash(path))
}

// Remove deletes a remote file.
func (c *Client) Remove(path string) error {
	return c.sftpClient.Remove(toSlash(path))
}

// Run executes a command on the remote host and returns its combined output.
func (c *Client) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	session, err := c.sshClient.NewSession()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer session.Close()

	// SSH sessions have no context support, so cancellation tears the
	// session down instead.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			session.Close()
		case <-done:
		}
	}()

	out, err := session.CombinedOutput(buildCommand(name, args))
	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	return out, err
}

// Start launches a remote command without waiting for it to finish.
func (c *Client) Start(name string, args ...string) error {
	session, err := c.sshClient.NewSession()
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if err := session.Start(buildCommand(name, args)); err != nil {
		session.Close()
		return err
	}
	go func() {
		_ = session.Wait()
		session.Close()
	}()
	return nil
}

// Getenv reads a variable from the remote login environment.
func (c *Client) Getenv(ctx context.Context, key string) string {
	out, err := c.Run(ctx, "sh", "-lc", `echo -n "$`+key+`"`)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// buildCommand renders a command line for the remote shell.
func buildCommand(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, shellQuote(name))
	for _, arg := range args {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

// shellQuote single-quotes an argument when it contains anything the remote
// shell could interpret.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'\\$&|;<>()*?[]{}~#`") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// toSlash normalizes separators for the remote host, which is assumed to
// run Linux.
func toSlash(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// expandPath expands a leading ~ to the local home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
