package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kevinburke/ssh_config"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"subsync/internal/services"
)

const defaultSSHPort = "22"

// SFTPOptions configures DialSFTP.
type SFTPOptions struct {
	HostAlias             string
	SSHConfigPath         string
	KnownHostsPath        string
	InsecureIgnoreHostKey bool
	Timeout               time.Duration
}

// Endpoint is a host alias resolved through the OpenSSH client config.
type Endpoint struct {
	Alias         string
	HostName      string
	Port          string
	User          string
	IdentityFiles []string
}

// Address returns host:port.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.HostName, e.Port)
}

// ResolveEndpoint reads the OpenSSH config at path and resolves alias. A
// missing config file resolves the alias as a plain host name.
func ResolveEndpoint(path, alias string) (Endpoint, error) {
	ep := Endpoint{Alias: alias, HostName: alias, Port: defaultSSHPort}
	if path != "" {
		file, err := os.Open(path)
		switch {
		case err == nil:
			defer file.Close()
			cfg, err := ssh_config.Decode(file)
			if err != nil {
				return Endpoint{}, fmt.Errorf("parse ssh config %s: %w", path, err)
			}
			if v, _ := cfg.Get(alias, "HostName"); v != "" {
				ep.HostName = v
			}
			if v, _ := cfg.Get(alias, "Port"); v != "" {
				ep.Port = v
			}
			if v, _ := cfg.Get(alias, "User"); v != "" {
				ep.User = v
			}
			if files, _ := cfg.GetAll(alias, "IdentityFile"); len(files) > 0 {
				for _, f := range files {
					ep.IdentityFiles = append(ep.IdentityFiles, expandHome(f))
				}
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Endpoint{}, fmt.Errorf("open ssh config: %w", err)
		}
	}
	if ep.User == "" {
		ep.User = os.Getenv("USER")
	}
	if len(ep.IdentityFiles) == 0 {
		ep.IdentityFiles = []string{expandHome("~/.ssh/id_ed25519"), expandHome("~/.ssh/id_rsa")}
	}
	return ep, nil
}

// SFTP is a Client speaking SFTP over one SSH connection.
type SFTP struct {
	ssh    *ssh.Client
	agent  net.Conn
	client *sftp.Client
}

func newSFTP(client *sftp.Client) *SFTP {
	return &SFTP{client: client}
}

// DialSFTP connects to the host named by opts.HostAlias.
func DialSFTP(ctx context.Context, opts SFTPOptions) (*SFTP, error) {
	ep, err := ResolveEndpoint(opts.SSHConfigPath, opts.HostAlias)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "transfer", "resolve host", opts.HostAlias, err)
	}

	hostKeys := ssh.InsecureIgnoreHostKey()
	if !opts.InsecureIgnoreHostKey {
		hostKeys, err = knownhosts.New(opts.KnownHostsPath)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "transfer", "load known hosts", opts.KnownHostsPath, err)
		}
	}

	auth, agentConn, err := authMethods(ep.IdentityFiles)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "transfer", "load credentials", ep.Alias, err)
	}
	closeAgent := func() {
		if agentConn != nil {
			agentConn.Close()
		}
	}

	clientConfig := &ssh.ClientConfig{
		User:            ep.User,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         opts.Timeout,
	}

	dialer := net.Dialer{Timeout: opts.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", ep.Address())
	if err != nil {
		closeAgent()
		return nil, services.Wrap(services.ErrExternal, "transfer", "dial", ep.Address(), err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, ep.Address(), clientConfig)
	if err != nil {
		conn.Close()
		closeAgent()
		return nil, services.Wrap(services.ErrExternal, "transfer", "ssh handshake", ep.Address(), err)
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		closeAgent()
		return nil, services.Wrap(services.ErrExternal, "transfer", "start sftp", ep.Address(), err)
	}
	s := newSFTP(client)
	s.ssh = sshClient
	s.agent = agentConn
	return s, nil
}

func (s *SFTP) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := s.client.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Mode().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *SFTP) Upload(ctx context.Context, localPath, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer src.Close()

	dst, err := s.client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("create remote %s: %w", remotePath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("upload %s: %w", remotePath, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close remote %s: %w", remotePath, err)
	}
	return nil
}

// Close shuts down the SFTP session, the SSH connection and the agent socket.
func (s *SFTP) Close() error {
	var errs []error
	if s.client != nil {
		errs = append(errs, s.client.Close())
	}
	if s.ssh != nil {
		errs = append(errs, s.ssh.Close())
	}
	if s.agent != nil {
		errs = append(errs, s.agent.Close())
	}
	return errors.Join(errs...)
}

// authMethods returns the agent connection it opened, if any. The caller
// owns it for the lifetime of the SSH client.
func authMethods(identityFiles []string) ([]ssh.AuthMethod, net.Conn, error) {
	var (
		methods   []ssh.AuthMethod
		agentConn net.Conn
	)
	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			agentConn = conn
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}
	var signers []ssh.Signer
	for _, path := range identityFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			// Passphrase-protected keys are expected to come from the agent.
			continue
		}
		signers = append(signers, signer)
	}
	if len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}
	if len(methods) == 0 {
		return nil, nil, errors.New("no ssh agent and no readable private key")
	}
	return methods, agentConn, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
