package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/actuallystonmai/moodtune-service/internal/domain"
)

func (s *Service) ListRecentlyPlayed(ctx context.Context, userID string) ([]domain.RecentlyPlayed, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", domain.ErrInvalidInput)
	}
	return s.plays.ListRecentlyPlayed(ctx, userID, domain.RecentlyPlayedLimit)
}

// AddRecentlyPlayed records a play, replacing an earlier play of the same
// file, and keeps the user's log bounded.
func (s *Service) AddRecentlyPlayed(ctx context.Context, item domain.RecentlyPlayed) error {
	item.UserID = strings.TrimSpace(item.UserID)
	if item.UserID == "" || strings.TrimSpace(item.Filename) == "" || strings.TrimSpace(item.Title) == "" {
		return fmt.Errorf("%w: userId, filename and title are required", domain.ErrInvalidInput)
	}

	if item.Artist == "" {
		item.Artist = "Unknown Artist"
	}
	if item.Language == "" {
		item.Language = "Unknown"
	}
	if item.Source == "" {
		item.Source = domain.SourceManual
	}
	if !domain.ValidSource(item.Source) {
		return fmt.Errorf("%w: unknown source %q", domain.ErrInvalidInput, item.Source)
	}
	item.PlayedAt = s.now().UTC()

	if err := s.plays.AddRecentlyPlayed(ctx, item, domain.RecentlyPlayedLimit); err != nil {
		return err
	}
	s.log.Debug().Str("user", item.UserID).Str("title", item.Title).Msg("recently played saved")
	return nil
}
