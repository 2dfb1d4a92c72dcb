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
	rootCmd.AddCommand(automationsCmd)
	automationsCmd.AddCommand(automationsListCmd, automationsAddCmd, automationsRemoveCmd)

	automationsAddCmd.Flags().StringVar(&automationSchedule, "schedule", "", "cron expression (e.g. \"0 9 * * *\")")
	automationsAddCmd.Flags().StringVar(&automationDeliver, "deliver", "", "delivery channel key (e.g. \"telegram:42\")")
	automationsAddCmd.Flags().BoolVar(&automationDisabled, "disabled", false, "store without scheduling")
}

var (
	automationSchedule string
	automationDeliver  string
	automationDisabled bool
)

var automationsCmd = &cobra.Command{
	Use:   "automations",
	Short: "Manage scheduled commands",
}

var automationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored automations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		st, err := store.Open(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		automations, err := st.ListAutomations(context.Background())
		if err != nil {
			return fmt.Errorf("list automations: %w", err)
		}
		if len(automations) == 0 {
			fmt.Println("No automations found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSCHEDULE\tENABLED\tDELIVER\tCOMMAND")
		for _, a := range automations {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", a.Name, a.Schedule, a.Enabled, a.Deliver, a.Command)
		}
		return w.Flush()
	},
}

var automationsAddCmd = &cobra.Command{
	Use:   "add <name> <command>",
	Short: "Add or replace an automation",
	Long: `Add or replace a stored automation. The command is natural language,
played through the pipeline when the schedule fires.

Example:
  abletonbuddy automations add morning-tempo "set tempo to 120" --schedule "0 9 * * *"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		st, err := store.Open(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		a := &types.Automation{
			Name:     args[0],
			Command:  args[1],
			Schedule: automationSchedule,
			Deliver:  automationDeliver,
			Enabled:  !automationDisabled,
		}
		if err := st.PutAutomation(context.Background(), a); err != nil {
			return fmt.Errorf("save automation: %w", err)
		}
		fmt.Printf("Automation %q saved. Send SIGHUP to a running daemon to pick it up.\n", a.Name)
		return nil
	},
}

var automationsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an automation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		st, err := store.Open(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := st.DeleteAutomation(context.Background(), args[0]); err != nil {
			return fmt.Errorf("remove automation: %w", err)
		}
		fmt.Println("Automation removed.")
		return nil
	},
}
