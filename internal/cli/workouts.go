package cli

import (
	"github.com/spf13/cobra"
)

func newWorkoutsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "workouts", Short: "Workout details"}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <workoutId>",
		Short: "Show a workout and its exercises",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printEnvelope(cmd, a.client.Workouts.GetWorkoutByID(cmd.Context(), args[0]))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list <courseId>",
		Short: "List the workouts of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printEnvelope(cmd, a.client.Workouts.GetCourseWorkouts(cmd.Context(), args[0]))
		},
	})
	return cmd
}
