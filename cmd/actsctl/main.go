package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/acts-bd/acts-client/internal/app"
	"github.com/acts-bd/acts-client/internal/config"
	"github.com/acts-bd/acts-client/internal/logger"
	"github.com/acts-bd/acts-client/pkg/request"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		if !reported(err) {
			fmt.Fprintf(os.Stderr, "actsctl: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &cli{}
	defer c.close()
	return c.rootCommand().ExecuteContext(ctx)
}

// reported reports whether err already produced a failure banner on stderr.
func reported(err error) bool {
	var (
		statusErr    *request.HTTPStatusError
		parseErr     *request.ParseError
		transportErr *request.TransportError
	)
	return errors.As(err, &statusErr) || errors.As(err, &parseErr) || errors.As(err, &transportErr)
}

// cli carries the runtime shared by every subcommand.
type cli struct {
	output string
	rt     *app.Runtime
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "actsctl",
		Short:         "Query the ACTS procurement risk API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&c.output, "output", "o", outputText, "output format: text, json or yaml")

	root.AddCommand(
		c.summaryCommand(),
		c.districtRisksCommand(),
		c.tendersCommand(),
		c.tenderCommand(),
		c.analyzeCommand(),
		c.networkCommand(),
		c.exportCommand(),
		c.getCommand(),
	)
	return root
}

func (c *cli) open(ctx context.Context) error {
	if err := validateOutput(c.output); err != nil {
		return err
	}
	if c.rt != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.DebugObj("actsctl starting", "config", cfg)

	c.rt, err = app.NewRuntime(ctx, cfg, log, os.Stderr)
	if err != nil {
		logger.ErrorObj("failed to initialize runtime", "error", err.Error())
		return err
	}
	return nil
}

func (c *cli) close() {
	if c.rt != nil {
		_ = c.rt.Close()
	}
	_ = logger.Close()
}
