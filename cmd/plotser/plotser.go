package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"plotser/config"
	"plotser/drivers"
	"plotser/events"
	"plotser/lines"
	"plotser/metrics"
	"plotser/render"
	"plotser/scheduler"
	"plotser/store"
	"plotser/tui"
	web "plotser/web/handlers"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plotser [flags] <device>",
		Short: "Real-time plotting of serial data",
		Long: "Plots whitespace separated numbers read line by line from a serial device.\n" +
			"Every number position in a line is its own channel. Use 'auto' to pick the\n" +
			"first Arduino-like USB port, or '-' to read from standard input.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
	}
	flags, serialFlags, webFlags, logFlags := config.BindFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		serialFlags.Port = args[0]
		return run(cmd.Context(), flags, serialFlags, webFlags, logFlags)
	}
	return cmd
}

func run(ctx context.Context, flags *config.Flags, serialFlags *config.SerialFlags, webFlags *config.WebFlags, logFlags *config.LogFlags) error {
	if err := flags.Validate(); err != nil {
		return err
	}
	if err := serialFlags.Validate(); err != nil {
		return err
	}

	logger, cleanup, err := config.NewLogger(logFlags, flags.Surface == config.Terminal)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := drivers.New(serialFlags, logger)
	if err := source.Open(); err != nil {
		logger.WithError(err).Error("couldn't open device")
		return fmt.Errorf("open %s: %w", serialFlags.Port, err)
	}

	collector := metrics.NewCollector()
	title := serialFlags.Title()

	surface, err := newSurface(flags, webFlags, title, collector, logger)
	if err != nil {
		_ = source.Close()
		return err
	}
	surface.SetTitle(title)

	st := store.New(flags.WindowSize, flags.Mode)
	sched := scheduler.New(flags, source, st, lines.NewRegistry(config.Palette), surface, collector, logger)

	logger.WithFields(logrus.Fields{
		"device":  source.Name(),
		"window":  flags.WindowSize,
		"mode":    flags.Mode,
		"surface": flags.Surface,
	}).Info("plotting")

	err = sched.Run(ctx)
	logger.Info("Bye!")
	if err != nil {
		logger.WithError(err).Error("stopped")
	}
	return err
}

func newSurface(flags *config.Flags, webFlags *config.WebFlags, title string, collector *metrics.Collector, logger *logrus.Logger) (render.Surface, error) {
	switch flags.Surface {
	case config.Web:
		return web.NewSurface(webFlags, events.NewHub(), collector, logger)
	default:
		return tui.NewSurface(title), nil
	}
}
