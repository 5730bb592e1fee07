package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/ggposrv/internal/archive"
	"github.com/udisondev/ggposrv/internal/auth"
	"github.com/udisondev/ggposrv/internal/config"
	"github.com/udisondev/ggposrv/internal/db"
	"github.com/udisondev/ggposrv/internal/geo"
	"github.com/udisondev/ggposrv/internal/lobby"
	"github.com/udisondev/ggposrv/internal/rendezvous"
)

// Exit codes kept from the historical server.
const (
	exitBadPidFile = 255 // -1
	exitBadSocket  = 254 // -2
)

var errBadPidFile = errors.New("bad pid file")

var (
	flagConfig     string
	flagAddress    string
	flagPort       int
	flagHolepunch  bool
	flagVerbose    bool
	flagLogStdout  bool
	flagForeground bool
	flagStop       bool
	flagRestart    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ggposrv",
		Short:        "GGPO-NG matchmaking and relay server",
		Version:      lobby.Version,
		SilenceUsage: true,
		RunE:         runRoot,
	}

	rootCmd.Flags().StringVar(&flagConfig, "config", "ggposrv.yaml", "configuration file")
	rootCmd.Flags().StringVarP(&flagAddress, "address", "a", "", "bind address (overrides config)")
	rootCmd.Flags().IntVarP(&flagPort, "port", "p", 0, "listening port (overrides config)")
	rootCmd.Flags().BoolVarP(&flagHolepunch, "udpholepunch", "u", false, "enable the UDP hole punching service")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "V", false, "debug logging")
	rootCmd.Flags().BoolVarP(&flagLogStdout, "log-stdout", "l", false, "log to stdout as well as the log file")
	rootCmd.Flags().BoolVarP(&flagForeground, "foreground", "f", false, "run in the foreground: no pid file, log to stdout")
	rootCmd.Flags().BoolVar(&flagStop, "stop", false, "stop a running server and exit")
	rootCmd.Flags().BoolVar(&flagRestart, "restart", false, "stop a running server, then start")

	if err := rootCmd.Execute(); err != nil {
		switch {
		case errors.Is(err, errBadPidFile):
			os.Exit(exitBadPidFile)
		case isSocketError(err):
			os.Exit(exitBadSocket)
		}
		os.Exit(1)
	}
}

func isSocketError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("address") {
		cfg.BindAddress = flagAddress
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = flagPort
	}
	if cmd.Flags().Changed("udpholepunch") {
		cfg.Holepunch = flagHolepunch
	}

	if flagStop || flagRestart {
		if err := stopRunning(cfg.PidFile); err != nil {
			return err
		}
		if !flagRestart {
			return nil
		}
		// give the old instance a moment to release the socket
		time.Sleep(time.Second)
	}

	if err := setupLogging(cfg.LogFile); err != nil {
		return err
	}

	if !flagForeground {
		if err := writePidFile(cfg.PidFile); err != nil {
			return err
		}
		defer os.Remove(cfg.PidFile)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	return run(ctx, cfg)
}

func run(ctx context.Context, cfg config.Config) error {
	slog.Info("ggposrv starting", "version", lobby.Version,
		"bind", cfg.BindAddress, "port", cfg.Port, "holepunch", cfg.Holepunch)

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	var locator geo.Locator = geo.Null()
	if cfg.GeoTable != "" {
		static, err := geo.LoadStatic(cfg.GeoTable)
		if err != nil {
			return fmt.Errorf("loading geo table: %w", err)
		}
		locator = static
	}

	authenticator := auth.NewService(db.NewPostgresAccountRepository(database.Pool()))
	store := archive.NewStore(cfg.QuarkDir)
	lobbySrv := lobby.NewServer(cfg, authenticator, locator, store)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := lobbySrv.Run(gctx); err != nil {
			return fmt.Errorf("lobby server: %w", err)
		}
		return nil
	})

	if cfg.Holepunch {
		punch := rendezvous.NewServer()
		addr := fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.Port)
		g.Go(func() error {
			if err := punch.Run(gctx, addr); err != nil {
				return fmt.Errorf("rendezvous server: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("fatal", "err", err)
		return err
	}
	return nil
}

// setupLogging sends slog to the log file, and to stdout too when asked.
// Foreground mode logs to stdout only.
func setupLogging(path string) error {
	var w io.Writer = os.Stdout
	if path != "" && !flagForeground {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		w = f
		if flagLogStdout {
			w = io.MultiWriter(f, os.Stdout)
		}
	}

	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}

// writePidFile records our pid, refusing to start when another instance is
// still alive.
func writePidFile(path string) error {
	if pid, err := readPidFile(path); err == nil {
		if proc, err := os.FindProcess(pid); err == nil && proc.Signal(syscall.Signal(0)) == nil {
			return fmt.Errorf("already running with pid %d", pid)
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644)
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errBadPidFile, path)
	}
	return pid, nil
}

// stopRunning signals the instance named by the pid file.
func stopRunning(path string) error {
	pid, err := readPidFile(path)
	if err != nil {
		return fmt.Errorf("reading pid file: %w", err)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("stopping pid %d: %w", pid, err)
	}
	fmt.Printf("sent SIGTERM to pid %d\n", pid)
	return nil
}
