package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rp-bot/AbletonBuddy/internal/osc"
)

func init() {
	rootCmd.AddCommand(sendCmd)
}

var sendCmd = &cobra.Command{
	Use:   "send <address> [args...]",
	Short: "Send one raw OSC request and print the reply",
	Long: `Send one OSC message to Ableton Live and print the reply, if any.
Numeric arguments are sent as numbers, everything else as strings.

Examples:
  abletonbuddy send /live/test
  abletonbuddy send /live/song/get/tempo
  abletonbuddy send /live/song/set/tempo 120`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		transport := osc.New(osc.Config{
			Host:        cfg.OSC.Host,
			SendPort:    cfg.OSC.SendPort,
			ReceivePort: cfg.OSC.ReceivePort,
			Live:        cfg.OSC.Live,
		})
		if err := transport.Start(); err != nil {
			return fmt.Errorf("start osc transport: %w", err)
		}
		defer transport.Close()

		address := args[0]
		oscArgs := parseOSCArgs(args[1:])

		timeout := time.Duration(cfg.OSC.TimeoutMS) * time.Millisecond
		reply, err := transport.SendAndWait(address, oscArgs, timeout)
		if err != nil {
			return fmt.Errorf("send %s: %w", address, err)
		}
		if reply == nil {
			fmt.Println("No reply within timeout.")
			return nil
		}
		fmt.Printf("%v\n", reply)
		return nil
	},
}

func parseOSCArgs(raw []string) []any {
	if len(raw) == 0 {
		return nil
	}
	out := make([]any, 0, len(raw))
	for _, s := range raw {
		if n, err := strconv.Atoi(s); err == nil {
			out = append(out, n)
			continue
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			out = append(out, f)
			continue
		}
		out = append(out, s)
	}
	return out
}
