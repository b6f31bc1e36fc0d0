package cli

import (
	"encoding/json"
	"fmt"

	"github.com/2beens/fitcourses/internal/result"

	"github.com/spf13/cobra"
)

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// printEnvelope prints env and turns a failed result into ErrCommandFailed.
func printEnvelope[T any](cmd *cobra.Command, env *result.Envelope[T]) error {
	if err := printJSON(cmd, env); err != nil {
		return err
	}
	if !env.Success {
		return ErrCommandFailed
	}
	return nil
}
