package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"hearth/database/repository/docstore"
	"hearth/utils"
)

const (
	calendarsCollection = "calendars"
	resolutionCacheTTL  = time.Hour
)

// legacyAddressPattern extracts the provider calendar id from the
// address-style field of first-generation descriptors, e.g.
// ".../ical/someone%40gmail.com/private-....ics".
var legacyAddressPattern = regexp.MustCompile(`/ical/([^/]+)`)

// resolveCalendarID maps an internal calendar reference to the
// provider's calendar id. Current descriptors carry it directly under
// source.calendarId; legacy ones only embed it in calendarAddress.
// Both generations must resolve identically, so the legacy path is a
// real fallback, not an error path.
func (s *DefaultMirrorService) resolveCalendarID(ctx context.Context, calendarRef string) (string, error) {
	cacheKey := "calres:" + calendarRef
	if s.Cache != nil {
		if id, err := s.Cache.Get(ctx, cacheKey).Result(); err == nil && id != "" {
			return id, nil
		} else if err != nil && !errors.Is(err, redis.Nil) {
			utils.GetLogger().Warn("calendar resolution cache unavailable", zap.Error(err))
		}
	}

	doc, err := s.Store.GetDocument(ctx, calendarsCollection, calendarRef)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return "", fmt.Errorf("calendar %s: %w", calendarRef, ErrCalendarNotResolvable)
		}
		return "", fmt.Errorf("failed to load calendar %s: %w", calendarRef, err)
	}

	id := calendarIDFromDescriptor(doc)
	if id == "" {
		return "", fmt.Errorf("calendar %s: %w", calendarRef, ErrCalendarNotResolvable)
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, cacheKey, id, resolutionCacheTTL).Err(); err != nil {
			utils.GetLogger().Warn("failed to cache calendar resolution", zap.Error(err))
		}
	}
	return id, nil
}

func calendarIDFromDescriptor(doc map[string]any) string {
	if src, ok := doc["source"].(map[string]any); ok {
		if id, ok := src["calendarId"].(string); ok && id != "" {
			return id
		}
	}
	addr, ok := doc["calendarAddress"].(string)
	if !ok {
		return ""
	}
	m := legacyAddressPattern.FindStringSubmatch(addr)
	if m == nil {
		return ""
	}
	id, err := url.QueryUnescape(m[1])
	if err != nil {
		return ""
	}
	return id
}
