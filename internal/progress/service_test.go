package progress

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/2beens/fitcourses/internal/api"
	"github.com/2beens/fitcourses/internal/models"
	"github.com/2beens/fitcourses/internal/result"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestService(t *testing.T) (*Service, *Mocktransport, *MockworkoutSource) {
	t.Helper()
	ctrl := gomock.NewController(t)
	transport := NewMocktransport(ctrl)
	workouts := NewMockworkoutSource(ctrl)
	return NewService(transport, workouts), transport, workouts
}

func courseProgressOpts(courseID string) api.RequestOptions {
	return api.RequestOptions{
		RequiresAuth: true,
		Params:       map[string]string{"courseId": courseID},
	}
}

func jsonResp(body string) *api.Response {
	return &api.Response{Success: true, Data: json.RawMessage(body)}
}

func TestGetCourseProgress(t *testing.T) {
	service, transport, _ := newTestService(t)

	transport.EXPECT().Get(gomock.Any(), "/users/me/progress", courseProgressOpts("ab1c3f")).Return(jsonResp(`{
		"courseId":"ab1c3f","courseCompleted":false,
		"workoutsProgress":[
			{"workoutId":"w1","workoutCompleted":true,"progressData":[10,10]},
			{"workoutId":"w2","workoutCompleted":false,"progressData":[3,0]}
		]
	}`), nil)

	res := service.GetCourseProgress(context.Background(), "ab1c3f")
	require.True(t, res.Success, res.Error)
	require.Len(t, res.Data.WorkoutsProgress, 2)
	assert.True(t, res.Data.WorkoutsProgress[0].WorkoutCompleted)
	assert.Equal(t, []int{3, 0}, res.Data.WorkoutsProgress[1].ProgressData)
}

func TestGetCourseProgress_Failures(t *testing.T) {
	service, transport, _ := newTestService(t)
	ctx := context.Background()

	assert.False(t, service.GetCourseProgress(ctx, "").Success)

	transport.EXPECT().Get(gomock.Any(), "/users/me/progress", courseProgressOpts("ab1c3f")).
		Return(nil, &api.Error{Status: http.StatusUnauthorized, Message: api.MessageAuthRequired})
	res := service.GetCourseProgress(ctx, "ab1c3f")
	assert.False(t, res.Success)
	assert.Equal(t, api.MessageAuthRequired, res.Error)

	transport.EXPECT().Get(gomock.Any(), "/users/me/progress", courseProgressOpts("ab1c3f")).
		Return(jsonResp(`"not an object"`), nil)
	res = service.GetCourseProgress(ctx, "ab1c3f")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, api.MessageParse)
}

func TestGetUserProgress(t *testing.T) {
	service, transport, _ := newTestService(t)

	opts := api.RequestOptions{
		RequiresAuth: true,
		Params:       map[string]string{"courseId": "ab1c3f", "workoutId": "w1"},
	}
	transport.EXPECT().Get(gomock.Any(), "/users/me/progress", opts).
		Return(jsonResp(`{"workoutId":"w1","workoutCompleted":false,"progressData":[3,4]}`), nil)

	res := service.GetUserProgress(context.Background(), "ab1c3f", "w1")
	require.True(t, res.Success)
	assert.Equal(t, &models.ProgressRecord{
		CourseID:     "ab1c3f",
		WorkoutID:    "w1",
		ProgressData: []int{3, 4},
	}, res.Data)

	assert.False(t, service.GetUserProgress(context.Background(), "ab1c3f", "").Success)
}

func TestSaveProgress(t *testing.T) {
	service, transport, _ := newTestService(t)
	ctx := context.Background()

	transport.EXPECT().Patch(gomock.Any(), "/courses/ab1c3f/workouts/w1", map[string][]int{"progressData": {3, 4}}, api.RequestOptions{RequiresAuth: true}).
		Return(jsonResp(`{"message":"Прогресс сохранен!"}`), nil)

	res := service.SaveProgress(ctx, "ab1c3f", "w1", []int{3, 4})
	assert.True(t, res.Success)
	assert.Equal(t, []int{3, 4}, res.Data)
	assert.Equal(t, messageSaved, res.Message)
}

func TestSaveProgress_Rejected(t *testing.T) {
	service, transport, _ := newTestService(t)
	ctx := context.Background()

	// no network call for invalid input
	res := service.SaveProgress(ctx, "ab1c3f", "w1", []int{3, -1})
	assert.False(t, res.Success)
	assert.Equal(t, "exercise 2: count cannot be negative", res.Error)

	assert.False(t, service.SaveProgress(ctx, "", "w1", []int{1}).Success)

	transport.EXPECT().Patch(gomock.Any(), "/courses/ab1c3f/workouts/w1", gomock.Any(), gomock.Any()).
		Return(nil, &api.Error{Status: http.StatusBadRequest, Message: "progressData length mismatch"})
	res = service.SaveProgress(ctx, "ab1c3f", "w1", []int{1})
	assert.False(t, res.Success)
	assert.Equal(t, "progressData length mismatch", res.Error)
	assert.Equal(t, http.StatusBadRequest, res.Status)
}

func TestResetProgress(t *testing.T) {
	service, transport, _ := newTestService(t)
	ctx := context.Background()

	transport.EXPECT().Patch(gomock.Any(), "/courses/ab1c3f/workouts/w1/reset", nil, api.RequestOptions{RequiresAuth: true}).
		Return(jsonResp(`null`), nil)
	res := service.ResetProgress(ctx, "ab1c3f", "w1")
	assert.True(t, res.Success)
	assert.Equal(t, messageReset, res.Message)

	transport.EXPECT().Patch(gomock.Any(), "/courses/ab1c3f/workouts/w2/reset", nil, api.RequestOptions{RequiresAuth: true}).
		Return(nil, &api.Error{Status: 0, Message: api.MessageNetwork, Err: errors.New("timeout")})
	res = service.ResetProgress(ctx, "ab1c3f", "w2")
	assert.False(t, res.Success)
	assert.Equal(t, api.MessageNetwork, res.Error)
}

func TestCourseCompletion(t *testing.T) {
	cases := []struct {
		name string
		resp *api.Response
		err  error
		want int
	}{
		{
			name: "all completed",
			resp: jsonResp(`{"workoutsProgress":[{"workoutId":"w1","workoutCompleted":true},{"workoutId":"w2","workoutCompleted":true}]}`),
			want: 100,
		},
		{
			name: "in progress",
			resp: jsonResp(`{"workoutsProgress":[{"workoutId":"w1","progressData":[0,2]},{"workoutId":"w2"}]}`),
			want: 50,
		},
		{
			name: "not started",
			resp: jsonResp(`{"workoutsProgress":[]}`),
			want: 0,
		},
		{
			name: "request failed",
			err:  &api.Error{Status: http.StatusInternalServerError, Message: "boom"},
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service, transport, _ := newTestService(t)
			transport.EXPECT().Get(gomock.Any(), "/users/me/progress", courseProgressOpts("ab1c3f")).Return(tc.resp, tc.err)
			assert.Equal(t, tc.want, service.CourseCompletion(context.Background(), "ab1c3f"))
		})
	}
}

func TestCourseOverview(t *testing.T) {
	service, transport, workouts := newTestService(t)
	ctx := context.Background()

	workouts.EXPECT().GetCourseWorkouts(gomock.Any(), "ab1c3f").Return(result.OK([]models.Workout{
		{ID: "w1"}, {ID: "w2"}, {ID: "w3"}, {ID: "w4"},
	}))
	transport.EXPECT().Get(gomock.Any(), "/users/me/progress", courseProgressOpts("ab1c3f")).Return(jsonResp(`{
		"courseId":"ab1c3f",
		"workoutsProgress":[
			{"workoutId":"w1","progressData":[3,4]},
			{"workoutId":"w2","workoutCompleted":true,"progressData":[1,1]}
		]
	}`), nil)

	tenTen := []models.Exercise{{Name: "a", Quantity: 10}, {Name: "b", Quantity: 10}}
	workouts.EXPECT().GetWorkoutByID(gomock.Any(), "w1").Return(result.OK(&models.Workout{ID: "w1", Name: "day 1", Exercises: tenTen}))
	workouts.EXPECT().GetWorkoutByID(gomock.Any(), "w2").Return(result.OK(&models.Workout{ID: "w2", Name: "day 2", Exercises: tenTen}))
	workouts.EXPECT().GetWorkoutByID(gomock.Any(), "w3").Return(result.OK(&models.Workout{ID: "w3", Name: "day 3", Exercises: tenTen}))
	workouts.EXPECT().GetWorkoutByID(gomock.Any(), "w4").Return(result.Fail[*models.Workout](nil, "failed to load workout"))

	res := service.CourseOverview(ctx, "ab1c3f")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "ab1c3f", res.Data.CourseID)
	assert.Equal(t, []models.WorkoutProgress{
		{WorkoutID: "w1", Name: "day 1", Percent: 35},
		{WorkoutID: "w2", Name: "day 2", Percent: 100, Completed: true},
		{WorkoutID: "w3", Name: "day 3", Percent: 0},
	}, res.Data.Workouts)
	// (35 + 100 + 0) / 3
	assert.Equal(t, 45, res.Data.Percent)
}

func TestCourseOverview_ProgressUnavailable(t *testing.T) {
	service, transport, workouts := newTestService(t)

	workouts.EXPECT().GetCourseWorkouts(gomock.Any(), "ab1c3f").Return(result.OK([]models.Workout{{ID: "w1"}}))
	transport.EXPECT().Get(gomock.Any(), "/users/me/progress", courseProgressOpts("ab1c3f")).
		Return(nil, &api.Error{Status: http.StatusNotFound, Message: "no progress"})
	workouts.EXPECT().GetWorkoutByID(gomock.Any(), "w1").
		Return(result.OK(&models.Workout{ID: "w1", Name: "day 1", Exercises: []models.Exercise{{Quantity: 5}}}))

	res := service.CourseOverview(context.Background(), "ab1c3f")
	require.True(t, res.Success)
	assert.Equal(t, 0, res.Data.Percent)
	assert.Len(t, res.Data.Workouts, 1)
}

func TestCourseOverview_WorkoutsUnavailable(t *testing.T) {
	service, transport, workouts := newTestService(t)

	failed := result.Fail[[]models.Workout](&api.Error{Status: http.StatusUnauthorized, Message: api.MessageAuthRequired}, "failed to load workouts")
	workouts.EXPECT().GetCourseWorkouts(gomock.Any(), "ab1c3f").Return(failed)
	transport.EXPECT().Get(gomock.Any(), "/users/me/progress", courseProgressOpts("ab1c3f")).
		Return(nil, &api.Error{Status: http.StatusUnauthorized, Message: api.MessageAuthRequired})

	res := service.CourseOverview(context.Background(), "ab1c3f")
	assert.False(t, res.Success)
	assert.Equal(t, api.MessageAuthRequired, res.Error)
	assert.Equal(t, http.StatusUnauthorized, res.Status)

	assert.False(t, service.CourseOverview(context.Background(), "").Success)
}
