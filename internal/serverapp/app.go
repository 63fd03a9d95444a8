// Package serverapp is the seqtree-server command.
package serverapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"

	"go.uber.org/zap"

	"seqtree/internal/appcore"
	"seqtree/internal/cache"
	"seqtree/internal/clibase"
	"seqtree/internal/cmdutil"
	"seqtree/internal/config"
	"seqtree/internal/metrics"
	"seqtree/internal/server"
	"seqtree/internal/version"
	"seqtree/internal/writers"
)

func examples(out io.Writer) {
	_, _ = fmt.Fprintln(out, "  # Listen on :8080 with an in-memory distance cache")
	_, _ = fmt.Fprintln(out, "  seqtree-server")
	_, _ = fmt.Fprintln(out, "\n  # Persistent cache, trees via an external program, JSON logs")
	_, _ = fmt.Fprintln(out, "  seqtree-server --addr :9000 --cache /var/lib/seqtree/cache.db --assembler fastme --log-format json")
	_, _ = fmt.Fprintln(out, "\n  # Ask for a matrix")
	_, _ = fmt.Fprintln(out, `  curl -s localhost:8080/api/v1/build -d '{"format":"fasta","text":">a\nACGT\n>b\nAGGT\n"}'`)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// RunContext parses flags, then serves until parent is cancelled.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	flush := func(code int) int {
		if err := outw.Flush(); writers.IsBrokenPipe(err) {
			return 0
		} else if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		return code
	}

	fs := NewFlagSet("seqtree-server")
	fs.SetOutput(io.Discard)

	opts, err := ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fs.SetOutput(outw)
			fs.Usage()
			return flush(0)
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			clibase.PrintExamples(outw, "seqtree-server", examples)
			return flush(0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		return flush(2)
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "seqtree-server version %s\n", version.Version)
		return flush(0)
	}

	cfg, err := clibase.LoadConfig(fs, &opts.Common, Overrides(&opts)...)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	log, err := cmdutil.NewLogger(cfg.Log.Level, cfg.Log.Format, opts.Quiet, stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	defer func() { _ = log.Sync() }()

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		log.Error("listen", zap.String("addr", cfg.Server.Addr), zap.Error(err))
		return 3
	}
	if err := Serve(parent, ln, cfg, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		return 3
	}
	return 0
}

// Serve runs the HTTP service on ln until ctx is cancelled, then shuts down
// gracefully within cfg.Server.ShutdownTimeout. It closes ln.
func Serve(ctx context.Context, ln net.Listener, cfg *config.Config, log *zap.Logger) error {
	b := appcore.NewBuilder(cfg, log)
	switch {
	case cfg.Cache.Path != "":
		c, err := cache.OpenSQLite(cfg.Cache.Path)
		if err != nil {
			_ = ln.Close()
			return err
		}
		defer c.Close()
		if n, err := c.Len(ctx); err == nil {
			log.Info("distance cache opened", zap.String("path", cfg.Cache.Path), zap.Int("entries", n))
		}
		b.Cache = c
	case cfg.Cache.MemoryEntries > 0:
		b.Cache = cache.NewMemory(cfg.Cache.MemoryEntries)
	}

	h := server.New(cfg, b, metrics.New("seqtree"), log).Handler()
	srv := &http.Server{
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorLog:     zap.NewStdLog(log.Named("http")),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.Info("listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("version", version.Version),
		zap.Bool("assembler", b.Assembler != nil),
		zap.String("cache", cacheKind(cfg)))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func cacheKind(cfg *config.Config) string {
	switch {
	case cfg.Cache.Path != "":
		return "sqlite"
	case cfg.Cache.MemoryEntries > 0:
		return "memory"
	}
	return "off"
}
