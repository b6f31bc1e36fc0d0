package progress

import (
	"testing"

	"github.com/2beens/fitcourses/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestWorkoutCompletion(t *testing.T) {
	tenTen := []models.Exercise{{Name: "squats", Quantity: 10}, {Name: "lunges", Quantity: 10}}

	cases := []struct {
		name      string
		record    *models.ProgressRecord
		exercises []models.Exercise
		want      int
	}{
		{
			name:      "partial",
			record:    &models.ProgressRecord{ProgressData: []int{3, 4}},
			exercises: tenTen,
			want:      35,
		},
		{
			name:      "flagged completed",
			record:    &models.ProgressRecord{ProgressData: []int{0, 1}, WorkoutCompleted: true},
			exercises: tenTen,
			want:      100,
		},
		{
			name:      "no progress data",
			record:    &models.ProgressRecord{ProgressData: []int{}, WorkoutCompleted: true},
			exercises: tenTen,
			want:      0,
		},
		{
			name:      "nil record",
			record:    nil,
			exercises: tenTen,
			want:      0,
		},
		{
			name:      "zero target",
			record:    &models.ProgressRecord{ProgressData: []int{5}},
			exercises: []models.Exercise{{Name: "plank", Quantity: 0}},
			want:      0,
		},
		{
			name:      "no exercises",
			record:    &models.ProgressRecord{ProgressData: []int{5}},
			exercises: nil,
			want:      0,
		},
		{
			name:      "over target",
			record:    &models.ProgressRecord{ProgressData: []int{15, 15}},
			exercises: tenTen,
			want:      100,
		},
		{
			name:      "rounds half up",
			record:    &models.ProgressRecord{ProgressData: []int{1}},
			exercises: []models.Exercise{{Quantity: 8}},
			want:      13,
		},
		{
			name:      "negative counts ignored",
			record:    &models.ProgressRecord{ProgressData: []int{-5, 2}},
			exercises: tenTen,
			want:      10,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WorkoutCompletion(tc.record, tc.exercises))
		})
	}
}

func TestCoarseCourseCompletion(t *testing.T) {
	assert.Equal(t, 0, CoarseCourseCompletion(nil))
	assert.Equal(t, 0, CoarseCourseCompletion([]models.ProgressRecord{
		{WorkoutID: "w1", ProgressData: []int{0, 0}},
		{WorkoutID: "w2"},
	}))
	assert.Equal(t, 50, CoarseCourseCompletion([]models.ProgressRecord{
		{WorkoutID: "w1", ProgressData: []int{0, 3}},
		{WorkoutID: "w2"},
	}))
	assert.Equal(t, 50, CoarseCourseCompletion([]models.ProgressRecord{
		{WorkoutID: "w1", WorkoutCompleted: true},
		{WorkoutID: "w2"},
	}))
	// completed with zero counts still counts as started
	assert.Equal(t, 50, CoarseCourseCompletion([]models.ProgressRecord{
		{WorkoutID: "w1", WorkoutCompleted: true, ProgressData: []int{0, 0}},
		{WorkoutID: "w2", ProgressData: []int{0}},
	}))
	assert.Equal(t, 100, CoarseCourseCompletion([]models.ProgressRecord{
		{WorkoutID: "w1", WorkoutCompleted: true},
		{WorkoutID: "w2", WorkoutCompleted: true, ProgressData: []int{10}},
	}))
}

func TestAveragePercent(t *testing.T) {
	assert.Equal(t, 0, averagePercent(nil))
	assert.Equal(t, 50, averagePercent([]int{0, 100}))
	assert.Equal(t, 45, averagePercent([]int{35, 100, 0}))
}
