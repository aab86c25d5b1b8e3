// Package transfer moves processed subtitles to the host that serves the
// media library.
//
// Client abstracts the two operations the batch needs: listing the file names
// of a remote directory and uploading one local file. The SFTP backend
// resolves its connection settings from an OpenSSH config host alias; the
// local backend treats remote paths as local paths, which covers mounted
// shares and tests.
package transfer

import (
	"context"
	"time"

	"subsync/internal/config"
	"subsync/internal/services"
)

// Client lists and uploads files on the remote side.
type Client interface {
	// List returns the names of regular files in dir, sorted.
	List(ctx context.Context, dir string) ([]string, error)
	// Upload copies the local file to the remote path, replacing it.
	Upload(ctx context.Context, localPath, remotePath string) error
	Close() error
}

// Open returns the client selected by cfg.Remote.Backend.
func Open(ctx context.Context, cfg *config.Config) (Client, error) {
	switch cfg.Remote.Backend {
	case config.BackendLocal:
		return NewLocal(), nil
	case config.BackendSFTP:
		if cfg.Remote.HostAlias == "" {
			return nil, services.Wrap(services.ErrConfiguration, "transfer", "open", "remote.host_alias is required for the sftp backend", nil)
		}
		return DialSFTP(ctx, SFTPOptions{
			HostAlias:             cfg.Remote.HostAlias,
			SSHConfigPath:         cfg.Remote.SSHConfigPath,
			KnownHostsPath:        cfg.Remote.KnownHostsPath,
			InsecureIgnoreHostKey: cfg.Remote.InsecureIgnoreHostKey,
			Timeout:               time.Duration(cfg.Remote.TimeoutSeconds) * time.Second,
		})
	default:
		return nil, services.Wrap(services.ErrConfiguration, "transfer", "open", "unsupported remote.backend "+cfg.Remote.Backend, nil)
	}
}
