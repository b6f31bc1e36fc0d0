package fakeapi

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/2beens/fitcourses/internal/models"
	"github.com/2beens/fitcourses/internal/storage"
	"github.com/2beens/fitcourses/pkg"

	"github.com/google/uuid"
)

const sessionKeyPrefix = "session::"

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongPassword   = errors.New("wrong password")
	ErrCourseNotFound  = errors.New("course not found")
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrAlreadyEnrolled = errors.New("course already added")
	ErrNotEnrolled     = errors.New("course not added")
	ErrBadProgress     = errors.New("invalid progress data")
)

type progressKey struct {
	courseID  string
	workoutID string
}

// State is the data behind the fake API. Sessions live in a storage.Store so
// several fake API instances can share them through redis.
type State struct {
	mu       sync.RWMutex
	users    map[string]string
	sessions storage.Store
	courses  []models.Course
	workouts map[string]models.Workout
	enrolled map[string][]string
	progress map[string]map[progressKey][]int
}

func NewState(sessions storage.Store, courses []models.Course, workouts []models.Workout) *State {
	s := &State{
		users:    map[string]string{},
		sessions: sessions,
		courses:  slices.Clone(courses),
		workouts: make(map[string]models.Workout, len(workouts)),
		enrolled: map[string][]string{},
		progress: map[string]map[progressKey][]int{},
	}
	for _, w := range workouts {
		s.workouts[w.ID] = w
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *State) Register(email, password string) error {
	email = normalizeEmail(email)
	hash, err := pkg.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return ErrUserExists
	}
	s.users[email] = hash
	return nil
}

// Login checks the credentials and issues a new token.
func (s *State) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	s.mu.RLock()
	hash, ok := s.users[email]
	s.mu.RUnlock()
	if !ok {
		return "", ErrUserNotFound
	}
	if !pkg.CheckPasswordHash(password, hash) {
		return "", ErrWrongPassword
	}

	token := uuid.NewString()
	if err := s.sessions.Set(ctx, sessionKeyPrefix+token, email); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *State) UserForToken(ctx context.Context, token string) (string, bool) {
	email, found, err := s.sessions.Get(ctx, sessionKeyPrefix+token)
	if err != nil || !found {
		return "", false
	}
	return email, true
}

func (s *State) Courses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.courses)
}

func (s *State) Course(courseID string) (models.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.course(courseID)
}

func (s *State) course(courseID string) (models.Course, bool) {
	for _, c := range s.courses {
		if c.ID == courseID {
			return c, true
		}
	}
	return models.Course{}, false
}

func (s *State) Workout(workoutID string) (models.Workout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workouts[workoutID]
	return w, ok
}

func (s *State) CourseWorkouts(courseID string) ([]models.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.course(courseID)
	if !ok {
		return nil, ErrCourseNotFound
	}
	workouts := make([]models.Workout, 0, len(c.Workouts))
	for _, id := range c.Workouts {
		if w, ok := s.workouts[id]; ok {
			workouts = append(workouts, w)
		}
	}
	return workouts, nil
}

func (s *State) Enroll(email, courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.course(courseID); !ok {
		return ErrCourseNotFound
	}
	if slices.Contains(s.enrolled[email], courseID) {
		return ErrAlreadyEnrolled
	}
	s.enrolled[email] = append(s.enrolled[email], courseID)
	return nil
}

func (s *State) Unenroll(email, courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.Index(s.enrolled[email], courseID)
	if idx < 0 {
		return ErrNotEnrolled
	}
	s.enrolled[email] = slices.Delete(s.enrolled[email], idx, idx+1)
	for k := range s.progress[email] {
		if k.courseID == courseID {
			delete(s.progress[email], k)
		}
	}
	return nil
}

func (s *State) Enrolled(email string) []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := make([]models.Course, 0, len(s.enrolled[email]))
	for _, id := range s.enrolled[email] {
		if c, ok := s.course(id); ok {
			courses = append(courses, c)
		}
	}
	return courses
}

// CourseProgress has one record per workout of the course.
func (s *State) CourseProgress(email, courseID string) (*models.CourseProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.enrolledCourse(email, courseID)
	if err != nil {
		return nil, err
	}

	cp := &models.CourseProgress{
		CourseID:         courseID,
		WorkoutsProgress: make([]models.ProgressRecord, 0, len(c.Workouts)),
	}
	completed := 0
	for _, workoutID := range c.Workouts {
		record := s.record(email, courseID, workoutID)
		if record.WorkoutCompleted {
			completed++
		}
		cp.WorkoutsProgress = append(cp.WorkoutsProgress, record)
	}
	cp.CourseCompleted = len(c.Workouts) > 0 && completed == len(c.Workouts)
	return cp, nil
}

func (s *State) WorkoutProgress(email, courseID, workoutID string) (*models.ProgressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.enrolledCourse(email, courseID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(c.Workouts, workoutID) {
		return nil, ErrWorkoutNotFound
	}
	record := s.record(email, courseID, workoutID)
	return &record, nil
}

// SaveProgress stores one count per exercise of the workout.
func (s *State) SaveProgress(email, courseID, workoutID string, counts []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.enrolledCourse(email, courseID)
	if err != nil {
		return err
	}
	w, ok := s.workouts[workoutID]
	if !ok || !slices.Contains(c.Workouts, workoutID) {
		return ErrWorkoutNotFound
	}
	if len(counts) != len(w.Exercises) {
		return fmt.Errorf("%w: expected %d values, got %d", ErrBadProgress, len(w.Exercises), len(counts))
	}
	for _, v := range counts {
		if v < 0 {
			return fmt.Errorf("%w: negative value %d", ErrBadProgress, v)
		}
	}

	if s.progress[email] == nil {
		s.progress[email] = map[progressKey][]int{}
	}
	s.progress[email][progressKey{courseID, workoutID}] = slices.Clone(counts)
	return nil
}

func (s *State) ResetProgress(email, courseID, workoutID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.enrolledCourse(email, courseID)
	if err != nil {
		return err
	}
	if !slices.Contains(c.Workouts, workoutID) {
		return ErrWorkoutNotFound
	}
	delete(s.progress[email], progressKey{courseID, workoutID})
	return nil
}

func (s *State) enrolledCourse(email, courseID string) (models.Course, error) {
	c, ok := s.course(courseID)
	if !ok {
		return models.Course{}, ErrCourseNotFound
	}
	if !slices.Contains(s.enrolled[email], courseID) {
		return models.Course{}, ErrNotEnrolled
	}
	return c, nil
}

// record builds the progress record of a workout, zero filled when nothing
// was saved. A workout is completed when every exercise reached its target.
func (s *State) record(email, courseID, workoutID string) models.ProgressRecord {
	w := s.workouts[workoutID]
	counts, saved := s.progress[email][progressKey{courseID, workoutID}]
	if !saved {
		counts = make([]int, len(w.Exercises))
	}

	completed := saved && len(w.Exercises) > 0
	for i, e := range w.Exercises {
		if i >= len(counts) || counts[i] < e.Quantity {
			completed = false
			break
		}
	}

	return models.ProgressRecord{
		WorkoutID:        workoutID,
		ProgressData:     slices.Clone(counts),
		WorkoutCompleted: completed,
	}
}
