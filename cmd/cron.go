package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"backoffice.GO/cron"
)

var jobName string

var cronStartCmd = &cobra.Command{
	Use:   "cron:start",
	Short: "Start the cron scheduler or run a single job by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, err := openEnv()
		if err != nil {
			return err
		}
		defer log.Sync()
		env := cron.Env{DB: db, Log: log}

		if jobName != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Running cron job: %s\n", jobName)
			return cron.RunJob(cmd.Context(), env, jobName, args...)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Starting cron scheduler...")
		c, err := cron.StartCron(env)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cron scheduler started. Press Ctrl+C to exit.")
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
		<-c.Stop().Done()
		return nil
	},
}

func init() {
	cronStartCmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single cron job by name and exit")
	rootCmd.AddCommand(cronStartCmd)
}
