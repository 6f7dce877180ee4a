package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/frudas24/deskinject/internal/app"
	"github.com/frudas24/deskinject/internal/config"
	"github.com/frudas24/deskinject/internal/control"
	"github.com/frudas24/deskinject/internal/keycodes"
	"github.com/frudas24/deskinject/internal/monitor"
	"github.com/frudas24/deskinject/internal/script"
	"github.com/frudas24/deskinject/internal/session"
	"github.com/frudas24/deskinject/internal/simulate"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

type options struct {
	debug  bool
	script string
	dryRun bool
}

// newLogger returns a console logger in debug mode and a JSON logger otherwise.
func newLogger(debug bool) zerolog.Logger {
	if debug {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		return zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

// run wires the application and blocks until shutdown.
func run(opts options, log zerolog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if opts.script != "" {
		return runScript(ctx, cfg, opts, log)
	}
	if opts.dryRun {
		return errors.New("-dry-run requires -script")
	}
	return serve(ctx, cfg, log)
}

// runScript replays one script file, or prints it when dry-running.
func runScript(ctx context.Context, cfg config.Config, opts options, log zerolog.Logger) error {
	s, err := script.LoadFile(opts.script, cfg.MaxScriptSteps)
	if err != nil {
		return err
	}
	if opts.dryRun {
		return printActions(os.Stdout, s)
	}

	dispatcher, err := newDispatcher(cfg)
	if err != nil {
		return err
	}
	res, err := script.Run(ctx, dispatcher, s)
	log.Info().Str("script", s.Name).Int("executed", res.Executed).Msg("script replayed")
	return err
}

// printActions writes one line per action: its description and, for events, the
// control message that replays it.
func printActions(w io.Writer, s script.Script) error {
	for _, action := range s.Actions {
		if action.Event == nil {
			if _, err := fmt.Fprintln(w, action); err != nil {
				return err
			}
			continue
		}
		msg, err := control.Encode(*action.Event)
		if err != nil {
			return err
		}
		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", action, data); err != nil {
			return err
		}
	}
	return nil
}

// serve runs the HTTP server until ctx is done.
func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	logStartup(cfg, log)

	dispatcher, err := newDispatcher(cfg)
	if err != nil {
		return err
	}

	sess := session.NewOpen()
	if cfg.PasswordMode {
		sess = session.New(cfg.UIPassword)
	}

	appInstance, err := app.New(cfg, sess, dispatcher, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := appInstance.Stop(); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	mux := http.NewServeMux()
	appInstance.RegisterRoutes(mux, "")
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newDispatcher builds the platform dispatcher, with the layout scan fallback when enabled.
func newDispatcher(cfg config.Config) (*simulate.Dispatcher, error) {
	var opts []simulate.Option
	if cfg.ScanFallback {
		opts = append(opts, simulate.WithScanLookup(keycodes.ScanFromSystem))
	}
	return simulate.Platform(opts...)
}

// logStartup prints startup checks and connection info.
func logStartup(cfg config.Config, log zerolog.Logger) {
	width, height := monitor.VirtualSize()
	log.Info().
		Int32("width", width).
		Int32("height", height).
		Bool("inputEnabled", cfg.InputEnabled).
		Bool("webrtc", cfg.WebRTCEnabled).
		Msg("deskinject starting")
	logEnvStatus(cfg, log)
	logListenStatus(cfg.ListenAddr, log)
}

// logEnvStatus reports whether a .env file was found and whether auth is on.
func logEnvStatus(cfg config.Config, log zerolog.Logger) {
	envPath := filepath.Join(cfg.DataDir, ".env")
	log.Info().Str("path", envPath).Bool("found", fileExists(envPath)).Msg("env check")
	if !cfg.PasswordMode {
		log.Warn().Msg("PASSWORD_MODE disabled (dev mode)")
	}
}

// logListenStatus reports the listen address and a local URL helper.
func logListenStatus(addr string, log zerolog.Logger) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		log.Info().Str("addr", addr).Msg("listen")
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	log.Info().Str("addr", addr).Str("url", "http://"+net.JoinHostPort(host, port)).Msg("listen")
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
