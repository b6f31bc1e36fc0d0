package courses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitcourses/internal/api"
	"github.com/2beens/fitcourses/internal/cache"
	"github.com/2beens/fitcourses/internal/models"
	"github.com/2beens/fitcourses/internal/result"

	log "github.com/sirupsen/logrus"
)

// cachedEnvelope returns the envelope cached under key, if younger than ttl.
// A ttl of 0 accepts entries of any age.
func cachedEnvelope[T any](ctx context.Context, c cache.Cache, key string, ttl time.Duration, now time.Time) (*result.Envelope[T], bool) {
	entry, ok := c.Get(ctx, key)
	if !ok || !entry.Fresh(ttl, now) {
		return nil, false
	}

	env := &result.Envelope[T]{}
	if err := json.Unmarshal(entry.Value, env); err != nil {
		log.Warnf("cached envelope [%s] is unreadable, ignoring it: %s", key, err)
		return nil, false
	}
	return env, true
}

func storeEnvelope[T any](ctx context.Context, c cache.Cache, key string, env *result.Envelope[T], persistent bool) {
	encoded, err := json.Marshal(env)
	if err != nil {
		log.Errorf("marshal envelope [%s]: %s", key, err)
		return
	}
	if err := c.Set(ctx, key, encoded, cache.Options{Persistent: persistent}); err != nil {
		log.Warnf("cache envelope [%s]: %s", key, err)
	}
}

var errMalformedResponse = errors.New(api.MessageParse)

func decodeData(resp *api.Response, target any) error {
	if resp == nil {
		return errMalformedResponse
	}
	if err := json.Unmarshal(resp.Data, target); err != nil {
		return fmt.Errorf("%w: %s", errMalformedResponse, err)
	}
	return nil
}

// decodeEnrolled accepts items identified either by "_id" or by "courseId".
func decodeEnrolled(resp *api.Response, target *[]models.Course) error {
	var items []struct {
		models.Course
		CourseID string `json:"courseId"`
	}
	if err := decodeData(resp, &items); err != nil {
		return err
	}

	courses := make([]models.Course, 0, len(items))
	for _, item := range items {
		c := item.Course
		if c.ID == "" {
			c.ID = item.CourseID
		}
		if c.ID == "" {
			continue
		}
		courses = append(courses, c)
	}
	*target = courses
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
