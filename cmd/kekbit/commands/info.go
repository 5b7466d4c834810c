package commands

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"kekbit.dev/kekbit/pkg/channel"
)

var infoCmd = &cobra.Command{
	Use:   "info <path>",
	Short: "Show a channel's header fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	r, err := channel.OpenReader(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	m := r.Metadata()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"field", "value"})
	table.Append([]string{"channel_id", humanize.Comma(int64(m.ChannelID))})
	table.Append([]string{"capacity", humanize.Bytes(uint64(m.Capacity))})
	table.Append([]string{"max_record_len", humanize.Bytes(uint64(m.MaxRecordLen))})
	table.Append([]string{"timeout_ns", humanize.Comma(int64(m.TimeoutNs))})
	table.Append([]string{"creation_ns", humanize.Comma(int64(m.CreationNs))})
	table.Render()
	return nil
}
