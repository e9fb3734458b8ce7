package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("orrery command failed")
		return 1
	}
	return 0
}

// rootFlags are persistent overrides that beat the config file's logging
// section.
type rootFlags struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "orrery",
		Short:         "Frame-refresh scheduling and webview coordination engine",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (trace|debug|info|warn|error)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format (console|json)")

	root.AddCommand(newDemoCmd(flags))
	root.AddCommand(newBootstrapCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// newLogger builds a process logger from level and format names. Empty
// strings keep the pslog defaults.
func newLogger(w io.Writer, level, format string) (pslog.Logger, error) {
	opts := pslog.Options{Mode: pslog.ModeConsole}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console":
	case "json", "structured":
		opts.Mode = pslog.ModeStructured
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
	case "trace":
		opts.MinLevel = pslog.TraceLevel
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "info":
		opts.MinLevel = pslog.InfoLevel
	case "warn", "warning":
		opts.MinLevel = pslog.WarnLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return pslog.NewWithOptions(w, opts), nil
}
