package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"relog-hq/relog/pkg/cli"
	"relog-hq/relog/pkg/config"
	"relog-hq/relog/pkg/recorder"
	"relog-hq/relog/pkg/store"
)

var getFlags struct {
	recordType string
	id         int64
	format     string
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch a stored request log record",
	Long: `Fetch a request log record from the configured store by type and id.

Examples:
  # Fetch completed record 42
  relog get --type completed --id 42

  # Fetch an error record as plain text
  relog get --type error --id 7 --format text`,
	RunE: getRecord,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getFlags.recordType, "type", "t", "completed", "record type (pending, completed, slow, error)")
	getCmd.Flags().Int64Var(&getFlags.id, "id", 0, "record id")
	getCmd.Flags().StringVarP(&getFlags.format, "format", "f", "json", "output format (text, json)")
	_ = getCmd.MarkFlagRequired("id")
}

func getRecord(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	code := recorder.Type(getFlags.recordType).Code()
	if code == "" {
		return cli.NewConfigError("type", fmt.Sprintf("unknown record type %q", getFlags.recordType))
	}

	kv, err := buildOpener(cfg)()
	if err != nil {
		return cli.NewCommandError("get", err)
	}
	defer kv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	keys := store.NewKeyBuilder(cfg.Project.Name, cfg.Project.Environment.Suffix())
	key := keys.Record(code, getFlags.id)

	value, err := kv.Get(ctx, key)
	if err != nil {
		return cli.NewCommandError("get", fmt.Errorf("%s: %w", key, err))
	}

	var info map[string]any
	if err := json.Unmarshal([]byte(value), &info); err != nil {
		return cli.NewCommandError("get", fmt.Errorf("record at %s is not valid JSON: %w", key, err))
	}

	formatter := cli.NewFormatter(cli.OutputFormat(getFlags.format))
	return formatter.FormatTo(os.Stdout, info)
}
