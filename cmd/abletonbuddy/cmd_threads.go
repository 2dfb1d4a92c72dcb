package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rp-bot/AbletonBuddy/internal/store"
	"github.com/rp-bot/AbletonBuddy/internal/types"
)

func init() {
	rootCmd.AddCommand(threadsCmd)
	threadsCmd.AddCommand(threadsListCmd, threadsShowCmd, threadsDeleteCmd)
}

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Manage conversation threads",
}

var threadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all threads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		st, err := store.Open(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := context.Background()
		threads, err := st.List(ctx)
		if err != nil {
			return fmt.Errorf("list threads: %w", err)
		}
		if len(threads) == 0 {
			fmt.Println("No threads found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tMESSAGES\tTITLE\tUPDATED")
		for _, th := range threads {
			title := th.Title
			if title == "" {
				title = th.Preview
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
				th.ID,
				th.MessageCount,
				title,
				th.UpdatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		return w.Flush()
	},
}

var threadsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a thread's transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		st, err := store.Open(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := context.Background()
		id := types.ThreadID(args[0])
		if _, err := st.Get(ctx, id); err != nil {
			return fmt.Errorf("load thread: %w", err)
		}
		messages, err := st.Messages(ctx, id)
		if err != nil {
			return fmt.Errorf("load messages: %w", err)
		}
		for _, m := range messages {
			fmt.Printf("[%s] %s\n", m.Role, m.Content)
		}
		return nil
	},
}

var threadsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a thread and its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		st, err := store.Open(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := st.Delete(context.Background(), types.ThreadID(args[0])); err != nil {
			return fmt.Errorf("delete thread: %w", err)
		}
		fmt.Println("Thread deleted.")
		return nil
	},
}
