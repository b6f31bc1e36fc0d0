package cache

import (
	"context"
	"sort"
	"time"

	"github.com/2beens/fitcourses/internal/telemetry/metrics"
	"github.com/2beens/fitcourses/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

const (
	tierMemory     = "memory"
	tierPersistent = "persistent"
)

// Tiered is the cache service handed to the accessors: an in-memory tier in
// front of a persisted one. Persistent writes go to both tiers, persisted hits
// are promoted into memory with their original timestamp.
type Tiered struct {
	memory     *MemoryCache
	persistent *PersistentCache
	metrics    *metrics.Manager
	NowFunc    func() time.Time
}

var _ Cache = (*Tiered)(nil)

func NewTiered(memory *MemoryCache, persistent *PersistentCache, metricsManager *metrics.Manager) *Tiered {
	return &Tiered{
		memory:     memory,
		persistent: persistent,
		metrics:    metricsManager,
		NowFunc:    time.Now,
	}
}

func (t *Tiered) Get(ctx context.Context, key string) (*Entry, bool) {
	if entry, ok := t.memory.Get(ctx, key); ok {
		t.metrics.CounterCacheHits.WithLabelValues(tierMemory).Inc()
		return entry, true
	}
	t.metrics.CounterCacheMisses.WithLabelValues(tierMemory).Inc()

	entry, ok := t.persistent.Get(ctx, key)
	if !ok {
		t.metrics.CounterCacheMisses.WithLabelValues(tierPersistent).Inc()
		return nil, false
	}
	t.metrics.CounterCacheHits.WithLabelValues(tierPersistent).Inc()

	if err := t.memory.setAt(key, entry.Value, entry.Timestamp); err != nil {
		log.Debugf("promote cache entry [%s]: %s", key, err)
	}
	return entry, true
}

func (t *Tiered) Set(ctx context.Context, key string, value []byte, opts Options) error {
	now := t.NowFunc()

	var err error
	if memErr := t.memory.setAt(key, value, now); memErr != nil {
		err = multierr.Append(err, memErr)
	}
	if opts.Persistent {
		if pErr := t.persistent.setAt(ctx, key, value, now); pErr != nil {
			err = multierr.Append(err, pErr)
		}
	}
	return err
}

func (t *Tiered) Clear(ctx context.Context, pattern string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.clear")
	span.SetAttributes(attribute.String("pattern", pattern))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	t.metrics.CounterCacheClears.Inc()
	err = multierr.Append(
		t.memory.Clear(ctx, pattern),
		t.persistent.Clear(ctx, pattern),
	)
	if err == nil {
		log.Debugf("cache cleared, pattern [%s]", pattern)
	}
	return err
}

// Info lists the keys present in either tier.
func (t *Tiered) Info(ctx context.Context) (Info, error) {
	unique := map[string]struct{}{}
	for _, k := range t.memory.Keys() {
		unique[k] = struct{}{}
	}

	persistedKeys, err := t.persistent.Keys(ctx)
	for _, k := range persistedKeys {
		unique[k] = struct{}{}
	}

	keys := make([]string, 0, len(unique))
	for k := range unique {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Info{
		Size: len(keys),
		Keys: keys,
	}, err
}
