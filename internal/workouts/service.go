package workouts

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
)

var ErrMalformedResponse = errors.New(api.MessageParse)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts

type transport interface {
	Get(ctx context.Context, endpoint string, opts api.RequestOptions) (*api.Response, error)
}

// Service reads workouts. Workouts are fetched on every call, nothing is cached.
type Service struct {
	transport transport
}

func NewService(transport transport) *Service {
	return &Service{
		transport: transport,
	}
}

func (s *Service) GetWorkoutByID(ctx context.Context, workoutID string) *result.Envelope[*models.Workout] {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.getByID")
	span.SetAttributes(attribute.String("workoutId", workoutID))
	defer span.End()

	if workoutID == "" {
		return result.Fail[*models.Workout](nil, "workout id is required")
	}

	resp, err := s.transport.Get(ctx, "/workouts/"+url.PathEscape(workoutID), api.RequestOptions{RequiresAuth: true})
	workout := &models.Workout{}
	if err == nil {
		err = decode(resp, workout)
	}
	if err == nil && workout.ID == "" {
		err = fmt.Errorf("workout [%s] not found", workoutID)
	}
	if err != nil {
		span.RecordError(err)
		log.Errorf("get workout [%s]: %s", workoutID, err)
		return result.Fail[*models.Workout](err, "failed to load workout")
	}

	if workout.Exercises == nil {
		workout.Exercises = []models.Exercise{}
	}
	return result.OK(workout)
}

// GetCourseWorkouts lists the workouts of a course. Failed envelopes carry an
// empty, non-nil list.
func (s *Service) GetCourseWorkouts(ctx context.Context, courseID string) *result.Envelope[[]models.Workout] {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.listForCourse")
	span.SetAttributes(attribute.String("courseId", courseID))
	defer span.End()

	if courseID == "" {
		return result.Fail[[]models.Workout](nil, "course id is required").WithData([]models.Workout{})
	}

	resp, err := s.transport.Get(ctx, "/courses/"+url.PathEscape(courseID)+"/workouts", api.RequestOptions{RequiresAuth: true})
	var workouts []models.Workout
	if err == nil {
		err = decode(resp, &workouts)
	}
	if err != nil {
		span.RecordError(err)
		log.Errorf("get workouts of course [%s]: %s", courseID, err)
		return result.Fail[[]models.Workout](err, "failed to load workouts").WithData([]models.Workout{})
	}

	if workouts == nil {
		workouts = []models.Workout{}
	}
	span.SetAttributes(attribute.Int("count", len(workouts)))
	return result.OK(workouts)
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
