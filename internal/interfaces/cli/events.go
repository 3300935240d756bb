package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/ayush-docknet/internal/domain/pipeline"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect stage events published to Kafka",
	}
	cmd.AddCommand(newEventsTailCmd())
	return cmd
}

func newEventsTailCmd() *cobra.Command {
	var (
		group      string
		fromLatest bool
	)
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print stage-completed events as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			kc := cc.Config.Kafka
			if !kc.Enabled {
				return errors.New(errors.ErrCodeServiceUnavailable, "kafka is disabled in the configuration")
			}
			consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
				Brokers:    kc.Brokers,
				GroupID:    group,
				Topic:      kc.Topic,
				FromLatest: fromLatest,
			}, cc.Logger)
			if err != nil {
				return err
			}
			defer consumer.Close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return consumer.Run(ctx, func(_ context.Context, ev pipeline.StageCompleted) error {
				if cc.OutputFormat == "json" {
					return printJSON(cmd, ev)
				}
				fmt.Fprintln(cmd.OutOrStdout(), FormatEvent(ev))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "consumer group; empty reads without committing a group offset")
	cmd.Flags().BoolVar(&fromLatest, "from-latest", false, "skip events published before the command started")
	return cmd
}

// FormatEvent renders ev as one log-style line.
func FormatEvent(ev pipeline.StageCompleted) string {
	next := string(ev.Next)
	if next == "" {
		next = "-"
	}
	return fmt.Sprintf("%s  %s  %s -> %s  step=%s  status=%s",
		ev.OccurredAt.UTC().Format(time.RFC3339), ev.ProjectID, ev.Stage, next,
		strconv.Itoa(ev.CurrentStep), ev.Status)
}
