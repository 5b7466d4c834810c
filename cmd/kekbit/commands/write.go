package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kekbit.dev/kekbit/internal/logger"
	"kekbit.dev/kekbit/internal/telemetry"
	"kekbit.dev/kekbit/pkg/channel"
)

var (
	writeCapacity uint32
	writeMaxLen   uint32
)

var writeCmd = &cobra.Command{
	Use:   "write <path>",
	Short: "Create a channel and write stdin into it, one line per record",
	Args:  cobra.ExactArgs(1),
	RunE:  runWrite,
}

func init() {
	writeCmd.Flags().Uint32Var(&writeCapacity, "capacity", 0, "record region size in bytes (0 uses the configured default)")
	writeCmd.Flags().Uint32Var(&writeMaxLen, "max-record-len", 0, "hard upper bound on a record payload (0 uses the configured default)")
}

func runWrite(cmd *cobra.Command, args []string) error {
	capacity := writeCapacity
	if capacity == 0 {
		capacity = cfg.DefaultCapacity
	}
	maxLen := writeMaxLen
	if maxLen == 0 {
		maxLen = cfg.DefaultMaxRecord
	}

	meta := newCLIMetadata(capacity, maxLen)
	w, err := channel.CreateWriter(args[0], meta)
	if err != nil {
		return err
	}
	defer w.Close()

	_, span := telemetry.Tracer().Start(context.Background(), "cli.write_batch",
		trace.WithAttributes(
			attribute.Int64(telemetry.AttrChannelID, int64(meta.ChannelID)),
			attribute.String(telemetry.AttrOperation, "write_batch"),
		))
	defer span.End()

	scanner := bufio.NewScanner(os.Stdin)
	count := 0
	for scanner.Scan() {
		if _, err := w.Write(scanner.Bytes()); err != nil {
			span.RecordError(err)
			return fmt.Errorf("write record %d: %w", count, err)
		}
		count++
	}
	span.SetAttributes(attribute.Int(telemetry.AttrRecordCount, count))

	logger.L().Info("write batch complete", "path", args[0], "channel_id", meta.ChannelID, "records", count)
	fmt.Fprintf(os.Stdout, "wrote %d records\n", count)
	return scanner.Err()
}
