package cli

import (
	"fmt"

	"github.com/2beens/fitcourses/internal/telemetry/metrics"

	"github.com/spf13/cobra"
)

type cacheCommands struct {
	app         *app
	withMetrics bool
}

func newCacheCmd(a *app) *cobra.Command {
	cc := &cacheCommands{app: a}
	cmd := &cobra.Command{Use: "cache", Short: "Response cache"}

	info := &cobra.Command{Use: "info", Short: "List cached keys", Args: cobra.NoArgs, RunE: cc.info}
	info.Flags().BoolVar(&cc.withMetrics, "metrics", false, "also dump the client metrics")

	cmd.AddCommand(info)
	cmd.AddCommand(&cobra.Command{
		Use:   "clear [pattern]",
		Short: "Drop cached responses, all of them when no pattern is given",
		Args:  cobra.MaximumNArgs(1),
		RunE:  cc.clear,
	})
	return cmd
}

func (cc *cacheCommands) info(cmd *cobra.Command, _ []string) error {
	info, err := cc.app.client.Cache.Info(cmd.Context())
	if err != nil {
		return fmt.Errorf("cache info: %w", err)
	}
	if err := printJSON(cmd, info); err != nil {
		return err
	}
	if !cc.withMetrics {
		return nil
	}

	dump, err := metrics.Dump(cc.app.client.Metrics())
	if err != nil {
		return fmt.Errorf("dump metrics: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), dump)
	return nil
}

func (cc *cacheCommands) clear(cmd *cobra.Command, args []string) error {
	pattern := ""
	if len(args) == 1 {
		pattern = args[0]
	}
	if err := cc.app.client.Cache.Clear(cmd.Context(), pattern); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
	return nil
}
