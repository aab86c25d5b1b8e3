package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"subsync/internal/ass"
	"subsync/internal/config"
	"subsync/internal/transfer"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckTemplate loads the default style template. An empty path checks the
// embedded one.
func CheckTemplate(path string) Result {
	const name = "Style template"

	doc, err := ass.LoadTemplate(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	source := path
	if source == "" {
		source = "embedded"
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d styles)", source, doc.Styles.Len())}
}

// CheckRemote resolves the host alias and opens one SFTP session against it.
// It uses a 10-second timeout when remote.timeout_seconds is unset.
func CheckRemote(ctx context.Context, cfg *config.Config) Result {
	const name = "Remote host"

	if cfg.Remote.HostAlias == "" {
		return Result{Name: name, Detail: "remote.host_alias not set"}
	}
	endpoint, err := transfer.ResolveEndpoint(cfg.Remote.SSHConfigPath, cfg.Remote.HostAlias)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}

	timeout := time.Duration(cfg.Remote.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := transfer.Open(checkCtx, cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s@%s (error: %v)", endpoint.User, endpoint.Address(), err)}
	}
	_ = client.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s@%s (connected)", endpoint.User, endpoint.Address())}
}
