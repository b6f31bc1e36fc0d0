package courses

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/fitcourses/internal/api"
	"github.com/2beens/fitcourses/internal/cache"
	"github.com/2beens/fitcourses/internal/models"
	"github.com/2beens/fitcourses/internal/result"
	"github.com/2beens/fitcourses/internal/telemetry/metrics"
	"github.com/2beens/fitcourses/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	keyAllCourses  = "all_courses"
	keyUserCourses = "user_courses"

	ttlAllCourses  = 10 * time.Minute
	ttlUserCourses = 2 * time.Minute
	ttlSearch      = 30 * time.Minute

	maxSuggestions = 3

	messageAdded     = "course added to your collection"
	messageDuplicate = "this course is already in your collection"
	messageRemoved   = "course removed from your collection"
)

// substrings of server messages that mean "already enrolled"
var duplicateMarkers = []string{"already", "уже", "добавлен"}

// UserCachePatterns match the cached responses that belong to the logged in user.
var UserCachePatterns = []string{keyUserCourses}

//go:generate mockgen -source=$GOFILE -destination=courses_mocks_test.go -package=courses

type transport interface {
	Get(ctx context.Context, endpoint string, opts api.RequestOptions) (*api.Response, error)
	Post(ctx context.Context, endpoint string, body any, opts api.RequestOptions) (*api.Response, error)
	Delete(ctx context.Context, endpoint string, opts api.RequestOptions) (*api.Response, error)
}

type tokenSource interface {
	Token(ctx context.Context) (string, bool)
}

type Service struct {
	transport transport
	cache     cache.Cache
	tokens    tokenSource
	shadow    *Shadow
	metrics   *metrics.Manager
	// ability to inject the clock (for unit testing)
	NowFunc func() time.Time
}

func NewService(
	transport transport,
	responseCache cache.Cache,
	tokens tokenSource,
	shadow *Shadow,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		transport: transport,
		cache:     responseCache,
		tokens:    tokens,
		shadow:    shadow,
		metrics:   metricsManager,
		NowFunc:   time.Now,
	}
}

// ListAllCourses serves the course catalog. When the server fails, the last
// cached catalog is served, however old, flagged as offline.
func (s *Service) ListAllCourses(ctx context.Context, forceRefresh bool) *result.Envelope[[]models.Course] {
	ctx, span := tracing.GlobalTracer.Start(ctx, "courses.listAll")
	span.SetAttributes(attribute.Bool("forceRefresh", forceRefresh))
	defer span.End()

	if !forceRefresh {
		if env, ok := cachedEnvelope[[]models.Course](ctx, s.cache, keyAllCourses, ttlAllCourses, s.NowFunc()); ok {
			span.SetAttributes(attribute.Bool("cached", true))
			return env
		}
	}

	_, hasToken := s.tokens.Token(ctx)
	resp, err := s.transport.Get(ctx, "/courses", api.RequestOptions{RequiresAuth: hasToken})
	if err != nil && hasToken {
		if status := api.StatusOf(err); status == http.StatusBadRequest || status == http.StatusUnauthorized {
			log.Debugf("list courses with auth failed (%d), retrying without auth", status)
			resp, err = s.transport.Get(ctx, "/courses", api.RequestOptions{})
		}
	}

	var courses []models.Course
	if err == nil {
		err = decodeData(resp, &courses)
	}
	if err == nil {
		env := result.OK(nonNil(courses))
		storeEnvelope(ctx, s.cache, keyAllCourses, env, true)
		log.Debugf("loaded %d courses", len(courses))
		return env
	}

	span.RecordError(err)
	log.Errorf("list courses: %s", err)

	if stale, ok := cachedEnvelope[[]models.Course](ctx, s.cache, keyAllCourses, 0, s.NowFunc()); ok {
		s.metrics.CounterOfflineFallbacks.WithLabelValues(keyAllCourses).Inc()
		log.Warnln("serving stale courses from cache")
		stale.IsOffline = true
		return stale
	}

	return result.Fail[[]models.Course](err, "failed to load courses").Offline().WithData([]models.Course{})
}

func (s *Service) GetCourseByID(ctx context.Context, courseID string) *result.Envelope[*models.Course] {
	ctx, span := tracing.GlobalTracer.Start(ctx, "courses.getByID")
	span.SetAttributes(attribute.String("courseId", courseID))
	defer span.End()

	if courseID == "" {
		return result.Fail[*models.Course](nil, "course id is required")
	}

	key := "course_" + courseID
	if env, ok := cachedEnvelope[*models.Course](ctx, s.cache, key, 0, s.NowFunc()); ok {
		return env
	}

	resp, err := s.transport.Get(ctx, "/courses/"+url.PathEscape(courseID), api.RequestOptions{})
	course := &models.Course{}
	if err == nil {
		err = decodeData(resp, course)
	}
	if err == nil && course.ID == "" {
		err = fmt.Errorf("course [%s] not found", courseID)
	}
	if err != nil {
		span.RecordError(err)
		log.Debugf("get course [%s]: %s", courseID, err)
		return result.Fail[*models.Course](err, "failed to load course")
	}

	env := result.OK(course)
	storeEnvelope(ctx, s.cache, key, env, false)
	return env
}

// FindCourseByTitle looks the title up in the catalog: exact russian name
// first, then the english name ignoring case, then a substring of either.
func (s *Service) FindCourseByTitle(ctx context.Context, title string) *result.Envelope[*models.Course] {
	ctx, span := tracing.GlobalTracer.Start(ctx, "courses.findByTitle")
	span.SetAttributes(attribute.String("title", title))
	defer span.End()

	if strings.TrimSpace(title) == "" {
		return result.Fail[*models.Course](nil, "course title is required")
	}

	key := searchCacheKey(title)
	if env, ok := cachedEnvelope[*models.Course](ctx, s.cache, key, ttlSearch, s.NowFunc()); ok {
		return env
	}

	all := s.ListAllCourses(ctx, false)
	if !all.Success {
		env := result.Fail[*models.Course](nil, "failed to load courses for search")
		if all.Error != "" {
			env.Error = all.Error
		}
		env.IsOffline = all.IsOffline
		return env
	}
	if len(all.Data) == 0 {
		return result.Fail[*models.Course](nil, "no courses found")
	}

	var env *result.Envelope[*models.Course]
	if course, matchType := matchCourse(all.Data, title); course != nil {
		env = result.OK(course)
		env.MatchType = matchType
	} else {
		env = result.Fail[*models.Course](nil, fmt.Sprintf("course %q not found", title))
		env.Suggestions = suggestions(all.Data)
	}
	env.IsOffline = all.IsOffline

	// searches over a stale catalog stay uncached
	if !all.IsOffline {
		storeEnvelope(ctx, s.cache, key, env, true)
	}
	return env
}

func (s *Service) AddEnrolledCourse(ctx context.Context, courseID string) *result.Envelope[string] {
	ctx, span := tracing.GlobalTracer.Start(ctx, "courses.addEnrolled")
	span.SetAttributes(attribute.String("courseId", courseID))
	defer span.End()

	if courseID == "" {
		return result.Fail[string](nil, "course id is required")
	}

	_, err := s.transport.Post(ctx, "/users/me/courses", map[string]string{"courseId": courseID}, api.RequestOptions{RequiresAuth: true})
	if err != nil {
		if isDuplicate(err) {
			log.Debugf("course [%s] already enrolled", courseID)
			return &result.Envelope[string]{
				Success:     true,
				Data:        courseID,
				IsDuplicate: true,
				Message:     messageDuplicate,
			}
		}
		span.RecordError(err)
		log.Errorf("add course [%s]: %s", courseID, err)
		return result.Fail[string](err, "failed to add course, please try again")
	}

	s.invalidateEnrolled(ctx)
	if err := s.shadow.Add(ctx, courseID); err != nil {
		log.Errorf("add course [%s] to shadow list: %s", courseID, err)
	}

	return result.OK(courseID).WithMessage(messageAdded)
}

func (s *Service) RemoveEnrolledCourse(ctx context.Context, courseID string) *result.Envelope[string] {
	ctx, span := tracing.GlobalTracer.Start(ctx, "courses.removeEnrolled")
	span.SetAttributes(attribute.String("courseId", courseID))
	defer span.End()

	if courseID == "" {
		return result.Fail[string](nil, "course id is required")
	}

	if _, err := s.transport.Delete(ctx, "/users/me/courses/"+url.PathEscape(courseID), api.RequestOptions{RequiresAuth: true}); err != nil {
		span.RecordError(err)
		log.Errorf("remove course [%s]: %s", courseID, err)
		return result.Fail[string](err, "failed to remove course, please try again")
	}

	s.invalidateEnrolled(ctx)
	if err := s.shadow.Remove(ctx, courseID); err != nil {
		log.Errorf("remove course [%s] from shadow list: %s", courseID, err)
	}

	return result.OK(courseID).WithMessage(messageRemoved)
}

// ListEnrolledCourses returns the user's courses. When the server is
// unreachable, the list is rebuilt from the shadow ids, without any metadata.
func (s *Service) ListEnrolledCourses(ctx context.Context, forceRefresh bool) *result.Envelope[[]models.Course] {
	ctx, span := tracing.GlobalTracer.Start(ctx, "courses.listEnrolled")
	span.SetAttributes(attribute.Bool("forceRefresh", forceRefresh))
	defer span.End()

	if !forceRefresh {
		if env, ok := cachedEnvelope[[]models.Course](ctx, s.cache, keyUserCourses, ttlUserCourses, s.NowFunc()); ok {
			return env
		}
	}

	resp, err := s.transport.Get(ctx, "/users/me/courses", api.RequestOptions{RequiresAuth: true})
	var courses []models.Course
	if err == nil {
		err = decodeEnrolled(resp, &courses)
	}
	if err == nil {
		env := result.OK(nonNil(courses))
		storeEnvelope(ctx, s.cache, keyUserCourses, env, true)

		ids := make([]string, 0, len(courses))
		for _, c := range courses {
			ids = append(ids, c.ID)
		}
		if err := s.shadow.Replace(ctx, ids); err != nil {
			log.Errorf("refresh shadow list: %s", err)
		}
		return env
	}

	span.RecordError(err)
	log.Errorf("list enrolled courses: %s", err)

	if unreachable(err) {
		ids, found, shadowErr := s.shadow.List(ctx)
		if shadowErr != nil {
			log.Errorf("read shadow list: %s", shadowErr)
		}
		if found {
			s.metrics.CounterOfflineFallbacks.WithLabelValues(keyUserCourses).Inc()
			log.Warnf("serving %d enrolled course ids from the shadow list", len(ids))
			minimal := make([]models.Course, 0, len(ids))
			for _, id := range ids {
				minimal = append(minimal, models.Course{ID: id})
			}
			env := result.OK(minimal)
			env.FromCache = true
			return env
		}
	}

	return result.Fail[[]models.Course](err, "failed to load your courses").Offline().WithData([]models.Course{})
}

// RefreshCache drops every cached course response.
func (s *Service) RefreshCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx, ""); err != nil {
		return fmt.Errorf("refresh courses cache: %w", err)
	}
	log.Debugln("courses cache refreshed")
	return nil
}

func (s *Service) invalidateEnrolled(ctx context.Context) {
	if err := s.cache.Clear(ctx, keyUserCourses); err != nil {
		log.Errorf("clear enrolled courses cache: %s", err)
	}
}

func searchCacheKey(title string) string {
	return "course_search_" + strings.Join(strings.Fields(strings.ToLower(title)), "_")
}

func matchCourse(courses []models.Course, title string) (*models.Course, string) {
	for i := range courses {
		if courses[i].NameRU == title {
			return &courses[i], result.MatchExactRU
		}
	}
	for i := range courses {
		if courses[i].NameEN != "" && strings.EqualFold(courses[i].NameEN, title) {
			return &courses[i], result.MatchExactEN
		}
	}
	titleLower := strings.ToLower(title)
	for i := range courses {
		if strings.Contains(strings.ToLower(courses[i].NameRU), titleLower) ||
			strings.Contains(strings.ToLower(courses[i].NameEN), titleLower) {
			return &courses[i], result.MatchPartial
		}
	}
	return nil, ""
}

func suggestions(courses []models.Course) []string {
	names := make([]string, 0, maxSuggestions)
	for _, c := range courses {
		if len(names) == maxSuggestions {
			break
		}
		names = append(names, c.NameRU)
	}
	return names
}

func isDuplicate(err error) bool {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Status {
	case http.StatusConflict:
		return true
	case http.StatusNotFound:
		return false
	}
	msg := strings.ToLower(apiErr.Message)
	for _, marker := range duplicateMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// unreachable reports failures where the server could not give an answer.
func unreachable(err error) bool {
	status := api.StatusOf(err)
	return status == 0 || status >= http.StatusInternalServerError
}
