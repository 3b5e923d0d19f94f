package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Wangkaiwei233/word-fetcher/pkg/jobs"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect submitted jobs",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs and their states",
	RunE:  runJobsList,
}

var jobsStatusCmd = &cobra.Command{
	Use:   "status <job_id>",
	Short: "Show status for a job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsStatus,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsStatusCmd)

	jobsListCmd.Flags().Bool("json", false, "Output as JSON")
	jobsStatusCmd.Flags().Bool("json", false, "Output as JSON")
}

func jobStore() (*jobs.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return jobs.NewStore(cfg.JobsDir()), nil
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := jobStore()
	if err != nil {
		return err
	}
	list, err := store.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No jobs found")
		return nil
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	_, _ = fmt.Fprintln(w, "JOB ID\tSTATE\tPROGRESS\tMESSAGE")
	for _, j := range list {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", j.JobID, j.State, j.Progress, j.Message)
	}
	return nil
}

func runJobsStatus(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := jobStore()
	if err != nil {
		return err
	}
	st, err := store.ReadStatus(args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	_, _ = fmt.Fprintf(os.Stdout, "State:    %s\n", st.State)
	_, _ = fmt.Fprintf(os.Stdout, "Progress: %d%%\n", st.Progress)
	_, _ = fmt.Fprintf(os.Stdout, "Message:  %s\n", st.Message)
	return nil
}
