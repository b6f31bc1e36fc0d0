package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

type coursesCommands struct {
	app     *app
	refresh bool
}

func newCoursesCmd(a *app) *cobra.Command {
	cc := &coursesCommands{app: a}
	cmd := &cobra.Command{Use: "courses", Short: "Course catalog and enrollments"}

	list := &cobra.Command{Use: "list", Short: "List all courses", Args: cobra.NoArgs, RunE: cc.list}
	list.Flags().BoolVar(&cc.refresh, "refresh", false, "bypass the cache")
	mine := &cobra.Command{Use: "mine", Short: "List your courses", Args: cobra.NoArgs, RunE: cc.mine}
	mine.Flags().BoolVar(&cc.refresh, "refresh", false, "bypass the cache")

	cmd.AddCommand(list, mine)
	cmd.AddCommand(&cobra.Command{Use: "get <courseId>", Short: "Show a course", Args: cobra.ExactArgs(1), RunE: cc.get})
	cmd.AddCommand(&cobra.Command{Use: "find <title>", Short: "Find a course by title", Args: cobra.MinimumNArgs(1), RunE: cc.find})
	cmd.AddCommand(&cobra.Command{Use: "enroll <courseId>", Short: "Add a course to your collection", Args: cobra.ExactArgs(1), RunE: cc.enroll})
	cmd.AddCommand(&cobra.Command{Use: "unenroll <courseId>", Short: "Remove a course from your collection", Args: cobra.ExactArgs(1), RunE: cc.unenroll})
	return cmd
}

func (cc *coursesCommands) list(cmd *cobra.Command, _ []string) error {
	return printEnvelope(cmd, cc.app.client.Courses.ListAllCourses(cmd.Context(), cc.refresh))
}

func (cc *coursesCommands) mine(cmd *cobra.Command, _ []string) error {
	return printEnvelope(cmd, cc.app.client.Courses.ListEnrolledCourses(cmd.Context(), cc.refresh))
}

func (cc *coursesCommands) get(cmd *cobra.Command, args []string) error {
	return printEnvelope(cmd, cc.app.client.Courses.GetCourseByID(cmd.Context(), args[0]))
}

func (cc *coursesCommands) find(cmd *cobra.Command, args []string) error {
	return printEnvelope(cmd, cc.app.client.Courses.FindCourseByTitle(cmd.Context(), strings.Join(args, " ")))
}

func (cc *coursesCommands) enroll(cmd *cobra.Command, args []string) error {
	return printEnvelope(cmd, cc.app.client.Courses.AddEnrolledCourse(cmd.Context(), args[0]))
}

func (cc *coursesCommands) unenroll(cmd *cobra.Command, args []string) error {
	return printEnvelope(cmd, cc.app.client.Courses.RemoveEnrolledCourse(cmd.Context(), args[0]))
}
