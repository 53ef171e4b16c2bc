package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studiobook/models"
	"studiobook/utils"

	"go.uber.org/zap"
)

// SlotSource lists open slots for an event type. *calendly.Client satisfies it.
type SlotSource interface {
	ListAvailableTimes(ctx context.Context, eventTypeURI string, start, end time.Time) ([]models.AvailableSlot, error)
}

// AvailabilityService answers the available-times endpoint.
type AvailabilityService interface {
	AvailableTimes(ctx context.Context, startParam, endParam string) (*models.AvailableTimesResult, error)
}

// DefaultAvailabilityService implements AvailabilityService over a SlotSource
// with an optional cache.
type DefaultAvailabilityService struct {
	Source       SlotSource // nil when Calendly is not configured
	EventTypeURI string
	Policy       Policy
	Cache        SlotCache // optional
	Logger       *zap.Logger
	Now          func() time.Time
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// AvailableTimes resolves the window, fetches open slots and drops those
// inside the minimum-notice period.
func (s *DefaultAvailabilityService) AvailableTimes(ctx context.Context, startParam, endParam string) (*models.AvailableTimesResult, error) {
	if s.Source == nil {
		return nil, &utils.ConfigurationError{Setting: "CALENDLY_API_TOKEN"}
	}
	if s.EventTypeURI == "" {
		return nil, &utils.ConfigurationError{Setting: "CALENDLY_EVENT_TYPE_URI"}
	}

	window, err := s.Policy.Resolve(s.now(), startParam, endParam)
	if err != nil {
		return nil, err
	}

	result := &models.AvailableTimesResult{
		Collection:     []models.AvailableSlot{},
		MinNoticeHours: s.Policy.MinNoticeHours,
		MaxDaysAhead:   s.Policy.MaxDaysAhead,
	}
	if window.Empty() {
		s.Logger.Debug("requested window is outside the bookable range",
			zap.String("start", startParam), zap.String("end", endParam))
		return result, nil
	}

	raw, err := s.fetch(ctx, window)
	if err != nil {
		return nil, err
	}
	result.Collection = FilterSlots(raw, window)
	return result, nil
}

func (s *DefaultAvailabilityService) fetch(ctx context.Context, window models.AvailabilityWindow) ([]models.AvailableSlot, error) {
	key := cacheKey(s.EventTypeURI, window)
	if s.Cache != nil {
		slots, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			s.Logger.Warn("availability cache read failed", zap.Error(err))
		} else if ok {
			return slots, nil
		}
	}

	slots, err := s.Source.ListAvailableTimes(ctx, s.EventTypeURI, window.Start, window.End)
	if err != nil {
		var upstreamErr *utils.UpstreamError
		var cfgErr *utils.ConfigurationError
		if errors.As(err, &upstreamErr) || errors.As(err, &cfgErr) {
			return nil, err
		}
		s.Logger.Error("failed to fetch available times", zap.Error(err))
		return nil, &utils.TransportError{Provider: "calendly", Op: "failed to fetch available times", Err: err}
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, slots); err != nil {
			s.Logger.Warn("availability cache write failed", zap.Error(err))
		}
	}
	return slots, nil
}

func cacheKey(eventTypeURI string, window models.AvailabilityWindow) string {
	return fmt.Sprintf("%s%s:%d:%d", utils.AvailabilityCachePrefix, eventTypeURI,
		window.Start.Truncate(time.Minute).Unix(), window.End.Truncate(time.Minute).Unix())
}
