package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kekbit.dev/kekbit/internal/logger"
	"kekbit.dev/kekbit/internal/telemetry"
	"kekbit.dev/kekbit/pkg/channel"
)

var (
	tailTimeoutOverride time.Duration
	tailProfile         bool
	tailProfileServer   string
)

var tailCmd = &cobra.Command{
	Use:   "tail <path>",
	Short: "Retry-read records from a channel until a terminal condition",
	Args:  cobra.ExactArgs(1),
	RunE:  runTail,
}

func init() {
	tailCmd.Flags().DurationVar(&tailTimeoutOverride, "timeout", 0, "idle timeout before giving up, 0 uses the channel's own")
	tailCmd.Flags().BoolVar(&tailProfile, "profile", false, "start continuous profiling for this long-running tail process")
	tailCmd.Flags().StringVar(&tailProfileServer, "profile-server", "", "pyroscope server address (required with --profile)")
}

func runTail(cmd *cobra.Command, args []string) error {
	stopProfiling, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		ApplicationName: "kekbit.tail",
		ServerAddress:   tailProfileServer,
		Enabled:         tailProfile,
	})
	if err != nil {
		return fmt.Errorf("tail: profiling: %w", err)
	}
	defer stopProfiling()

	r, err := channel.OpenReader(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	timeoutNs := r.Metadata().TimeoutNs
	if tailTimeoutOverride > 0 {
		timeoutNs = uint64(tailTimeoutOverride)
	}

	_, span := telemetry.Tracer().Start(context.Background(), "cli.read_batch",
		trace.WithAttributes(
			attribute.Int64(telemetry.AttrChannelID, int64(r.Metadata().ChannelID)),
			attribute.String(telemetry.AttrOperation, "read_batch"),
		))
	defer span.End()

	var it interface {
		Next() (channel.ReadResult, bool)
	}
	if timeoutNs > 0 {
		it = channel.Retry(r.IntoTimeout(timeoutNs, channel.SystemClock{}))
	} else {
		it = channel.Retry(r)
	}

	count := 0
	for {
		res, ok := it.Next()
		if !ok {
			span.SetAttributes(attribute.Int(telemetry.AttrRecordCount, count))
			return nil
		}
		if res.Outcome == channel.OutcomeRecord {
			count++
			fmt.Fprintf(os.Stdout, "%d: %s\n", res.Position, res.Payload)
			continue
		}
		span.SetAttributes(attribute.Int(telemetry.AttrRecordCount, count))
		logger.L().Info("tail finished", "path", args[0], "outcome", res.Outcome.String(), "records", count)
		fmt.Fprintf(os.Stdout, "terminal: %s\n", res.Outcome)
		return nil
	}
}
