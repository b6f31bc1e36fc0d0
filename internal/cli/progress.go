package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

type progressCommands struct {
	app        *app
	completion bool
}

func newProgressCmd(a *app) *cobra.Command {
	pc := &progressCommands{app: a}
	cmd := &cobra.Command{Use: "progress", Short: "Workout progress"}

	course := &cobra.Command{Use: "course <courseId>", Short: "Show the progress of a course", Args: cobra.ExactArgs(1), RunE: pc.course}
	course.Flags().BoolVar(&pc.completion, "completion", false, "print only the coarse completion percent")

	cmd.AddCommand(course)
	cmd.AddCommand(&cobra.Command{Use: "get <courseId> <workoutId>", Short: "Show the progress of a workout", Args: cobra.ExactArgs(2), RunE: pc.get})
	cmd.AddCommand(&cobra.Command{Use: "save <courseId> <workoutId> <count>...", Short: "Save one count per exercise", Args: cobra.MinimumNArgs(3), RunE: pc.save})
	cmd.AddCommand(&cobra.Command{Use: "reset <courseId> <workoutId>", Short: "Reset the progress of a workout", Args: cobra.ExactArgs(2), RunE: pc.reset})
	cmd.AddCommand(&cobra.Command{Use: "overview <courseId>", Short: "Show per workout completion of a course", Args: cobra.ExactArgs(1), RunE: pc.overview})
	return cmd
}

func (pc *progressCommands) get(cmd *cobra.Command, args []string) error {
	return printEnvelope(cmd, pc.app.client.Progress.GetUserProgress(cmd.Context(), args[0], args[1]))
}

func (pc *progressCommands) course(cmd *cobra.Command, args []string) error {
	if pc.completion {
		fmt.Fprintln(cmd.OutOrStdout(), pc.app.client.Progress.CourseCompletion(cmd.Context(), args[0]))
		return nil
	}
	return printEnvelope(cmd, pc.app.client.Progress.GetCourseProgress(cmd.Context(), args[0]))
}

func (pc *progressCommands) save(cmd *cobra.Command, args []string) error {
	counts, err := parseCounts(args[2:])
	if err != nil {
		return err
	}
	return printEnvelope(cmd, pc.app.client.Progress.SaveProgress(cmd.Context(), args[0], args[1], counts))
}

func (pc *progressCommands) reset(cmd *cobra.Command, args []string) error {
	return printEnvelope(cmd, pc.app.client.Progress.ResetProgress(cmd.Context(), args[0], args[1]))
}

func (pc *progressCommands) overview(cmd *cobra.Command, args []string) error {
	return printEnvelope(cmd, pc.app.client.Progress.CourseOverview(cmd.Context(), args[0]))
}

func parseCounts(args []string) ([]int, error) {
	counts := make([]int, 0, len(args))
	for i, arg := range args {
		count, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("exercise %d: invalid count [%s]", i, arg)
		}
		counts = append(counts, count)
	}
	return counts, nil
}
