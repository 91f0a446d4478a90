package remote

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/zhubert/rsync-tui/internal/config"
	"github.com/zhubert/rsync-tui/internal/errors"
	"github.com/zhubert/rsync-tui/internal/logger"
)

// SFTPLister lists directories over a single long-lived SFTP session
// instead of one ssh process per listing.
type SFTPLister struct {
	target config.Target
	conn   *ssh.Client
	client *sftp.Client
}

// SFTPOptions configures authentication for DialSFTP.
type SFTPOptions struct {
	IdentityFile   string // optional private key; agent is always tried first
	KnownHostsFile string // defaults to ~/.ssh/known_hosts
	Timeout        time.Duration
}

// DialSFTP connects to t and opens an SFTP session. Host keys are checked
// against known_hosts; an unknown host is an error.
func DialSFTP(t config.Target, opts SFTPOptions) (*SFTPLister, error) {
	log := logger.WithComponent("remote")

	auth, err := authMethods(opts.IdentityFile)
	if err != nil {
		return nil, errors.ConfigurationError(err.Error())
	}
	hostKeys, err := hostKeyCallback(opts.KnownHostsFile)
	if err != nil {
		return nil, errors.ConfigurationError(fmt.Sprintf("known_hosts: %v", err))
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	conn, err := ssh.Dial("tcp", t.Address(), &ssh.ClientConfig{
		User:            t.User,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         timeout,
	})
	if err != nil {
		return nil, errors.RemoteUnreachable(t.String(), err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, errors.RemoteUnreachable(t.String(), fmt.Errorf("sftp subsystem: %w", err))
	}
	log.Info("sftp session opened", "target", t.String())
	return &SFTPLister{target: t, conn: conn, client: client}, nil
}

func authMethods(identityFile string) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod
	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if c, err := net.Dial("unix", sock); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(c).Signers))
		}
	}
	if identityFile != "" {
		key, err := os.ReadFile(expandHome(identityFile))
		if err != nil {
			return nil, fmt.Errorf("read identity file: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("parse identity file: %w", err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("no ssh agent and no identity_file configured")
	}
	return methods, nil
}

func hostKeyCallback(path string) (ssh.HostKeyCallback, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}
	return knownhosts.New(expandHome(path))
}

func expandHome(p string) string {
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return p
}

// List implements Lister. Symlinks to directories are reported as
// directories since the sftp server can stat the target.
func (l *SFTPLister) List(ctx context.Context, dir string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := l.client.ReadDir(dir)
	if err != nil {
		return nil, errors.ListingFailed(dir, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, fi := range infos {
		e := Entry{
			Name:       fi.Name(),
			RemotePath: Join(dir, fi.Name()),
			Size:       fi.Size(),
		}
		switch {
		case fi.IsDir():
			e.Kind = KindDirectory
		case fi.Mode()&os.ModeSymlink != 0:
			e.IsLink = true
			if target, err := l.client.ReadLink(e.RemotePath); err == nil {
				e.LinkTarget = target
			}
			if st, err := l.client.Stat(e.RemotePath); err == nil && st.IsDir() {
				e.Kind = KindDirectory
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Home returns the SFTP server's working directory, which is the login
// user's home on OpenSSH.
func (l *SFTPLister) Home(ctx context.Context) (string, error) {
	wd, err := l.client.Getwd()
	if err != nil || !strings.HasPrefix(wd, "/") {
		return "/", nil
	}
	return wd, nil
}

// Close ends the SFTP session and the underlying connection.
func (l *SFTPLister) Close() error {
	l.client.Close()
	return l.conn.Close()
}
