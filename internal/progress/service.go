package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/2beens/fitcourses/internal/api"
	"github.com/2beens/fitcourses/internal/models"
	"github.com/2beens/fitcourses/internal/result"
	"github.com/2beens/fitcourses/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	progressEndpoint = "/users/me/progress"

	// max concurrent workout detail fetches while building an overview
	overviewFetchLimit = 4

	messageSaved = "progress saved"
	messageReset = "progress reset"
)

var ErrMalformedResponse = errors.New(api.MessageParse)

//go:generate mockgen -source=$GOFILE -destination=progress_mocks_test.go -package=progress

type transport interface {
	Get(ctx context.Context, endpoint string, opts api.RequestOptions) (*api.Response, error)
	Patch(ctx context.Context, endpoint string, body any, opts api.RequestOptions) (*api.Response, error)
}

type workoutSource interface {
	GetWorkoutByID(ctx context.Context, workoutID string) *result.Envelope[*models.Workout]
	GetCourseWorkouts(ctx context.Context, courseID string) *result.Envelope[[]models.Workout]
}

// Service reads and writes the progress of the current user. Progress
// changes on every training, so nothing here is cached.
type Service struct {
	transport transport
	workouts  workoutSource
}

func NewService(transport transport, workouts workoutSource) *Service {
	return &Service{
		transport: transport,
		workouts:  workouts,
	}
}

func (s *Service) GetCourseProgress(ctx context.Context, courseID string) *result.Envelope[*models.CourseProgress] {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.getCourse")
	span.SetAttributes(attribute.String("courseId", courseID))
	defer span.End()

	if courseID == "" {
		return result.Fail[*models.CourseProgress](nil, "course id is required")
	}

	resp, err := s.transport.Get(ctx, progressEndpoint, api.RequestOptions{
		RequiresAuth: true,
		Params:       map[string]string{"courseId": courseID},
	})
	courseProgress := &models.CourseProgress{}
	if err == nil {
		err = decode(resp, courseProgress)
	}
	if err != nil {
		span.RecordError(err)
		log.Errorf("get progress of course [%s]: %s", courseID, err)
		return result.Fail[*models.CourseProgress](err, "failed to load course progress")
	}

	if courseProgress.CourseID == "" {
		courseProgress.CourseID = courseID
	}
	if courseProgress.WorkoutsProgress == nil {
		courseProgress.WorkoutsProgress = []models.ProgressRecord{}
	}
	return result.OK(courseProgress)
}

func (s *Service) GetUserProgress(ctx context.Context, courseID, workoutID string) *result.Envelope[*models.ProgressRecord] {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.getWorkout")
	span.SetAttributes(
		attribute.String("courseId", courseID),
		attribute.String("workoutId", workoutID),
	)
	defer span.End()

	if courseID == "" || workoutID == "" {
		return result.Fail[*models.ProgressRecord](nil, "course id and workout id are required")
	}

	resp, err := s.transport.Get(ctx, progressEndpoint, api.RequestOptions{
		RequiresAuth: true,
		Params: map[string]string{
			"courseId":  courseID,
			"workoutId": workoutID,
		},
	})
	record := &models.ProgressRecord{}
	if err == nil {
		err = decode(resp, record)
	}
	if err != nil {
		span.RecordError(err)
		log.Errorf("get progress of workout [%s/%s]: %s", courseID, workoutID, err)
		return result.Fail[*models.ProgressRecord](err, "failed to load progress")
	}

	record.CourseID = courseID
	if record.WorkoutID == "" {
		record.WorkoutID = workoutID
	}
	if record.ProgressData == nil {
		record.ProgressData = []int{}
	}
	return result.OK(record)
}

// SaveProgress submits the per-exercise counts of a workout, in exercise order.
func (s *Service) SaveProgress(ctx context.Context, courseID, workoutID string, counts []int) *result.Envelope[[]int] {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.save")
	span.SetAttributes(
		attribute.String("courseId", courseID),
		attribute.String("workoutId", workoutID),
		attribute.IntSlice("counts", counts),
	)
	defer span.End()

	if courseID == "" || workoutID == "" {
		return result.Fail[[]int](nil, "course id and workout id are required")
	}
	for i, count := range counts {
		if count < 0 {
			return result.Fail[[]int](nil, fmt.Sprintf("exercise %d: count cannot be negative", i+1))
		}
	}
	if counts == nil {
		counts = []int{}
	}

	_, err := s.transport.Patch(ctx, workoutEndpoint(courseID, workoutID), map[string][]int{"progressData": counts}, api.RequestOptions{RequiresAuth: true})
	if err != nil {
		span.RecordError(err)
		log.Errorf("save progress of workout [%s/%s]: %s", courseID, workoutID, err)
		return result.Fail[[]int](err, "failed to save progress")
	}

	log.Debugf("progress of workout [%s/%s] saved: %v", courseID, workoutID, counts)
	return result.OK(counts).WithMessage(messageSaved)
}

func (s *Service) ResetProgress(ctx context.Context, courseID, workoutID string) *result.Envelope[string] {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.reset")
	span.SetAttributes(
		attribute.String("courseId", courseID),
		attribute.String("workoutId", workoutID),
	)
	defer span.End()

	if courseID == "" || workoutID == "" {
		return result.Fail[string](nil, "course id and workout id are required")
	}

	if _, err := s.transport.Patch(ctx, workoutEndpoint(courseID, workoutID)+"/reset", nil, api.RequestOptions{RequiresAuth: true}); err != nil {
		span.RecordError(err)
		log.Errorf("reset progress of workout [%s/%s]: %s", courseID, workoutID, err)
		return result.Fail[string](err, "failed to reset progress")
	}

	return result.OK(workoutID).WithMessage(messageReset)
}

// CourseCompletion is the coarse completion of a course. Any failure yields 0.
func (s *Service) CourseCompletion(ctx context.Context, courseID string) int {
	progress := s.GetCourseProgress(ctx, courseID)
	if !progress.Success || progress.Data == nil {
		return PercentNone
	}
	return CoarseCourseCompletion(progress.Data.WorkoutsProgress)
}

// CourseOverview computes the completion of every workout of a course and
// their average. Workouts whose details cannot be loaded are left out.
func (s *Service) CourseOverview(ctx context.Context, courseID string) *result.Envelope[*models.CourseOverview] {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.courseOverview")
	span.SetAttributes(attribute.String("courseId", courseID))
	defer span.End()

	if courseID == "" {
		return result.Fail[*models.CourseOverview](nil, "course id is required")
	}

	var (
		workoutList    *result.Envelope[[]models.Workout]
		courseProgress *result.Envelope[*models.CourseProgress]
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		workoutList = s.workouts.GetCourseWorkouts(gCtx, courseID)
		return nil
	})
	g.Go(func() error {
		courseProgress = s.GetCourseProgress(gCtx, courseID)
		return nil
	})
	_ = g.Wait()

	if !workoutList.Success {
		env := result.Fail[*models.CourseOverview](nil, workoutList.Error)
		env.Status = workoutList.Status
		return env
	}

	records := map[string]*models.ProgressRecord{}
	if courseProgress.Success {
		for i := range courseProgress.Data.WorkoutsProgress {
			r := &courseProgress.Data.WorkoutsProgress[i]
			records[r.WorkoutID] = r
		}
	} else {
		log.Warnf("course [%s] overview without progress: %s", courseID, courseProgress.Error)
	}

	rows := make([]*models.WorkoutProgress, len(workoutList.Data))
	dg, dCtx := errgroup.WithContext(ctx)
	dg.SetLimit(overviewFetchLimit)
	for i, w := range workoutList.Data {
		i, w := i, w
		dg.Go(func() error {
			detail := s.workouts.GetWorkoutByID(dCtx, w.ID)
			if !detail.Success {
				log.Warnf("course [%s] overview: skipping workout [%s]: %s", courseID, w.ID, detail.Error)
				return nil
			}

			record := records[w.ID]
			row := &models.WorkoutProgress{
				WorkoutID: w.ID,
				Name:      detail.Data.Name,
				Percent:   WorkoutCompletion(record, detail.Data.Exercises),
			}
			row.Completed = row.Percent == PercentComplete || (record != nil && record.WorkoutCompleted)

			rows[i] = row
			return nil
		})
	}
	_ = dg.Wait()

	overview := &models.CourseOverview{
		CourseID: courseID,
		Workouts: []models.WorkoutProgress{},
	}
	percents := make([]int, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		overview.Workouts = append(overview.Workouts, *row)
		percents = append(percents, row.Percent)
	}
	overview.Percent = averagePercent(percents)

	span.SetAttributes(attribute.Int("percent", overview.Percent))
	return result.OK(overview)
}

func workoutEndpoint(courseID, workoutID string) string {
	return "/courses/" + url.PathEscape(courseID) + "/workouts/" + url.PathEscape(workoutID)
}

func decode(resp *api.Response, target any) error {
	if resp == nil {
		return ErrMalformedResponse
	}
	if err := json.Unmarshal(resp.Data, target); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	return nil
}
