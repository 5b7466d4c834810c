package commands

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"kekbit.dev/kekbit/internal/dirpath"
	"kekbit.dev/kekbit/internal/logger"
	"kekbit.dev/kekbit/pkg/channel"
	"kekbit.dev/kekbit/pkg/header"
	"kekbit.dev/kekbit/pkg/tick"
)

var (
	createCapacity    uint32
	createMaxLen      uint32
	createTimeout     uint64
	createTimeoutUnit string
	createChanID      uint64
	createRoot        string
)

var createCmd = &cobra.Command{
	Use:   "create [path]",
	Short: "Create a new channel file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().Uint32Var(&createCapacity, "capacity", 0, "record region size in bytes (0 uses the configured default)")
	createCmd.Flags().Uint32Var(&createMaxLen, "max-record-len", 0, "hard upper bound on a record payload (0 uses the configured default)")
	createCmd.Flags().Uint64Var(&createTimeout, "timeout", 0, "writer heartbeat interval, in --timeout-unit; 0 disables when --timeout-unit is given, otherwise uses the configured default")
	createCmd.Flags().StringVar(&createTimeoutUnit, "timeout-unit", "", "unit for --timeout: ns, us, ms, or s (default from config)")
	createCmd.Flags().Uint64Var(&createChanID, "channel-id", 0, "numeric channel id, 0 generates one from a random UUID")
	createCmd.Flags().StringVar(&createRoot, "root", "", "resolve --channel-id under this root via the hi/lo directory convention, instead of a path argument")
}

// resolveCreatePath returns the target file path: the explicit
// positional argument if given, or dirpath.For(createRoot, id) when
// --root was supplied instead.
func resolveCreatePath(args []string, id uint64) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if createRoot == "" {
		return "", fmt.Errorf("create: either a <path> argument or --root must be given")
	}
	path := dirpath.For(createRoot, id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create: %w", err)
	}
	return path, nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	capacity := createCapacity
	if capacity == 0 {
		capacity = cfg.DefaultCapacity
	}
	maxLen := createMaxLen
	if maxLen == 0 {
		maxLen = cfg.DefaultMaxRecord
	}

	id := createChanID
	if id == 0 {
		u := uuid.New()
		id = binary.BigEndian.Uint64(u[:8])
	}

	path, err := resolveCreatePath(args, id)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("%s already exists, overwrite", path),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			return fmt.Errorf("aborted: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return err
		}
	}

	var timeoutNs uint64
	if createTimeoutUnit == "" {
		c := cfg
		if createTimeout != 0 {
			c.DefaultTimeout = createTimeout
		}
		timeoutNs, err = c.TimeoutNs()
		if err != nil {
			return err
		}
	} else {
		unit, err := tick.ParseUnit(createTimeoutUnit)
		if err != nil {
			return err
		}
		timeoutNs = unit.ToNanos(createTimeout)
	}

	meta := header.Metadata{
		ChannelID:    id,
		Capacity:     capacity,
		MaxRecordLen: maxLen,
		TimeoutNs:    timeoutNs,
		CreationNs:   uint64(time.Now().UnixNano()),
	}
	w, err := channel.CreateWriter(path, meta)
	if err != nil {
		return err
	}
	defer w.Close()

	logger.L().Info("created channel", "path", path, "channel_id", id,
		"capacity", capacity, "max_record_len", maxLen, "timeout_ns", timeoutNs)
	fmt.Printf("created channel %s (id=%d, capacity=%s, max_record_len=%s)\n",
		path, id, humanize.Bytes(uint64(capacity)), humanize.Bytes(uint64(maxLen)))
	return nil
}
