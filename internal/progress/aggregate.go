package progress

import (
	"math"

	"github.com/2beens/fitcourses/internal/models"
)

const (
	PercentNone       = 0
	PercentInProgress = 50
	PercentComplete   = 100
)

// WorkoutCompletion turns the recorded exercise counts into a completion
// percentage in [0, 100]. A record flagged as completed is always 100.
func WorkoutCompletion(record *models.ProgressRecord, exercises []models.Exercise) int {
	if record == nil || len(record.ProgressData) == 0 {
		return PercentNone
	}
	if record.WorkoutCompleted {
		return PercentComplete
	}

	done := 0
	for _, count := range record.ProgressData {
		if count > 0 {
			done += count
		}
	}
	target := 0
	for _, e := range exercises {
		if e.Quantity > 0 {
			target += e.Quantity
		}
	}
	if target == 0 {
		return PercentNone
	}

	percent := int(math.Round(float64(done) / float64(target) * 100))
	return clamp(percent)
}

// CoarseCourseCompletion is 100 when every workout is completed, 50 when any
// workout has been started and 0 otherwise. A completed workout counts as
// started even when all of its counts are zero.
func CoarseCourseCompletion(records []models.ProgressRecord) int {
	if len(records) == 0 {
		return PercentNone
	}

	completed := 0
	started := false
	for _, r := range records {
		if r.WorkoutCompleted {
			completed++
			started = true
			continue
		}
		for _, count := range r.ProgressData {
			if count > 0 {
				started = true
				break
			}
		}
	}

	switch {
	case completed == len(records):
		return PercentComplete
	case started:
		return PercentInProgress
	default:
		return PercentNone
	}
}

// averagePercent is the rounded mean of the percentages.
func averagePercent(percents []int) int {
	if len(percents) == 0 {
		return PercentNone
	}
	total := 0
	for _, p := range percents {
		total += p
	}
	return clamp(int(math.Round(float64(total) / float64(len(percents)))))
}

func clamp(percent int) int {
	if percent < PercentNone {
		return PercentNone
	}
	if percent > PercentComplete {
		return PercentComplete
	}
	return percent
}
