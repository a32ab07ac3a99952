package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"soufra_admin/internal/logger"
	"soufra_admin/internal/messaging"
	"soufra_admin/internal/services"

	"github.com/spf13/cobra"
)

func newIngestCommand(deps Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Consume external orders from the message queue and store them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}
			prefetch, _ := cmd.Flags().GetInt("prefetch")
			log := logger.New("soufra-ingest", cfg.LogLevel)

			a, err := newApp(cfg, log, appOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			conn, err := messaging.New(cfg.AMQPURL, cfg.ExternalOrdersQueue, log.With("messaging"))
			if err != nil {
				return err
			}
			consumer := messaging.NewConsumer(conn, log.With("messaging"), "soufra-ingest", prefetch)
			defer consumer.Close()

			ingest := services.NewIngestService(a.carts, a.orders, log.With("ingest"))
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return consumer.StartConsuming(ctx, func(ctx context.Context, body []byte) error {
				_, err := ingest.HandleExternalOrder(ctx, body)
				return err
			})
		},
	}
	cmd.Flags().Int("prefetch", 10, "Unacknowledged messages the consumer may hold.")
	cmd.AddCommand(newIngestSendCommand(deps))
	return cmd
}

func newIngestSendCommand(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "send [file]",
		Short: "Publish an order message read from a file, or stdin, to the queue.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readMessage(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}
			log := logger.New("soufra-ingest", cfg.LogLevel)

			conn, err := messaging.New(cfg.AMQPURL, cfg.ExternalOrdersQueue, log)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := messaging.NewPublisher(conn, log).Publish(cmd.Context(), body); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "published %d bytes to %s\n", len(body), cfg.ExternalOrdersQueue)
			return nil
		},
	}
}

func readMessage(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	body, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	return body, nil
}
