// Package cmd is the rsync-tui command line: it validates the target,
// probes the remote host and runs the TUI until every transfer has stopped.
package cmd

import (
	"context"
	"fmt"
	"os"
	osexec "os/exec"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/rsync-tui/internal/app"
	"github.com/zhubert/rsync-tui/internal/clipboard"
	"github.com/zhubert/rsync-tui/internal/config"
	"github.com/zhubert/rsync-tui/internal/errors"
	pexec "github.com/zhubert/rsync-tui/internal/exec"
	"github.com/zhubert/rsync-tui/internal/logger"
	"github.com/zhubert/rsync-tui/internal/notification"
	"github.com/zhubert/rsync-tui/internal/process"
	"github.com/zhubert/rsync-tui/internal/remote"
	"github.com/zhubert/rsync-tui/internal/transfer"
)

const (
	probeTimeout    = 30 * time.Second
	installTimeout  = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

var (
	userFlag        string
	portFlag        int
	destFlag        string
	concurrencyFlag int
	listerFlag      string
	installRsync    bool
	followSymlinks  bool
	debugMode       bool
	logFile         string

	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "rsync-tui [user@]HOST",
	Short: "Browse a remote host over ssh and download with rsync",
	Long: `rsync-tui lists directories on a remote host over ssh, lets you mark
files and directories, and downloads them with resumable rsync transfers.
Interrupted downloads continue where they stopped when retried.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: initLogging,
	RunE:              runTUI,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&userFlag, "user", "u", config.DefaultUser, "Remote user")
	f.IntVarP(&portFlag, "port", "p", config.DefaultPort, "Remote ssh port")
	f.StringVarP(&destFlag, "dest", "d", "", "Local destination root (default from config, else .)")
	f.IntVarP(&concurrencyFlag, "concurrency", "j", 0, "Transfers run at once (default from config, else 1)")
	f.StringVar(&listerFlag, "lister", "", "Directory listing backend: ssh or sftp")
	f.BoolVar(&installRsync, "install-rsync", false, "Install rsync on the remote with apt-get or yum when missing")
	f.BoolVarP(&followSymlinks, "follow-symlinks", "L", false, "Copy the files symlinks point to")

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", logger.DefaultLogPath, "Log file path")
}

func initLogging(_ *cobra.Command, _ []string) error {
	logger.SetDebug(debugMode)
	if err := logger.Init(logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("rsync-tui %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("rsync-tui %s\n", version)
}

// ExitCode maps an Execute error onto the process exit status.
// Configuration errors exit 2, every other startup failure 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.GetKind(err).Fatal():
		return 2
	default:
		return 1
	}
}

// applyFlags lets explicitly set flags override the settings file.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("dest") {
		cfg.Destination = destFlag
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = concurrencyFlag
	}
	if flags.Changed("lister") {
		cfg.Lister = listerFlag
	}
	if flags.Changed("follow-symlinks") {
		cfg.FollowSymlinks = followSymlinks
	}
	return cfg.Validate()
}

func runTUI(cmd *cobra.Command, args []string) error {
	var host string
	if len(args) > 0 {
		host = args[0]
	}
	target, err := config.ParseTarget(host, userFlag, portFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	defer logger.Close()

	log := logger.WithComponent("cmd")
	log.Info("starting", "version", version, "target", target.String(), "concurrency", cfg.Concurrency, "lister", cfg.Lister)

	if _, err := osexec.LookPath("rsync"); err != nil {
		return errors.ConfigurationError("rsync is not installed locally")
	}

	ssh := remote.NewSSHLister(target, cfg.SSHOptions, pexec.NewRealExecutor())
	if err := ensureRemoteRsync(cmd.Context(), ssh, target); err != nil {
		return err
	}

	lister, home, closeLister, err := openLister(cmd.Context(), cfg, target, ssh)
	if err != nil {
		return err
	}
	defer closeLister()

	opts := transfer.Options{
		Target:         target,
		ProgressMode:   cfg.ProgressMode,
		FollowSymlinks: cfg.FollowSymlinks,
		SSHOptions:     cfg.SSHOptions,
		ExtraArgs:      cfg.RsyncArgs,
	}
	queue := transfer.NewQueue(opts, cfg.Concurrency, home, transfer.NewRunner())

	m := app.New(cfg, app.Options{
		Target:    target,
		Lister:    lister,
		Queue:     queue,
		StartDir:  home,
		Version:   version,
		Clipboard: clipboard.WriteText,
		Notify:    notification.QueueDrained,
	})
	_, runErr := tea.NewProgram(m).Run()
	m.Close()

	// The loop normally exits only after every transfer has stopped. This
	// covers a forced quit and a crashed loop.
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := queue.Shutdown(ctx); err != nil {
		log.Warn("shutdown deadline passed, transfers killed", "error", err)
	}
	if n := process.KillStrays(os.Getpid(), "rsync"); n > 0 {
		log.Warn("killed stray rsync processes", "count", n)
	}

	if runErr != nil {
		return fmt.Errorf("error running app: %w", runErr)
	}
	log.Info("exited cleanly")
	return nil
}

// rsyncProber is the part of the ssh lister used for startup probes.
type rsyncProber interface {
	CheckRsync(ctx context.Context) (bool, error)
	InstallRsync(ctx context.Context) error
}

// ensureRemoteRsync fails unless rsync is on the remote PATH, installing
// it first when --install-rsync is set.
func ensureRemoteRsync(ctx context.Context, p rsyncProber, target config.Target) error {
	if ctx == nil {
		ctx = context.Background()
	}
	probe, cancel := context.WithTimeout(ctx, probeTimeout)
	ok, err := p.CheckRsync(probe)
	cancel()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if !installRsync {
		return errors.RsyncMissing(target.Host)
	}

	fmt.Fprintf(os.Stderr, "Installing rsync on %s...\n", target.Host)
	install, cancel := context.WithTimeout(ctx, installTimeout)
	defer cancel()
	if err := p.InstallRsync(install); err != nil {
		return err
	}
	if ok, err := p.CheckRsync(install); err != nil || !ok {
		return errors.RsyncMissing(target.Host)
	}
	return nil
}

// openLister returns the configured lister and the remote home directory
// the browser starts in.
func openLister(ctx context.Context, cfg *config.Config, target config.Target, ssh *remote.SSHLister) (remote.Lister, string, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	probe, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if cfg.Lister == config.ListerSFTP {
		l, err := remote.DialSFTP(target, remote.SFTPOptions{
			IdentityFile:   cfg.IdentityFile,
			KnownHostsFile: cfg.KnownHostsFile,
		})
		if err != nil {
			return nil, "", nil, err
		}
		home, err := l.Home(probe)
		if err != nil {
			l.Close()
			return nil, "", nil, err
		}
		return l, home, func() { l.Close() }, nil
	}

	home, err := ssh.Home(probe)
	if err != nil {
		return nil, "", nil, err
	}
	return ssh, home, func() {}, nil
}
