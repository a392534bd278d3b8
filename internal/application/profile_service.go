package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/smart-living/internal/domain/entity"
)

const (
	MsgProfileUpdated = "Profile updated successfully! Generating new recommendations..."

	// DefaultSaveRedirectDelay is how long the editor waits before sending
	// the user back to the dashboard.
	DefaultSaveRedirectDelay = 1500 * time.Millisecond
)

// ProfileService backs the single-screen profile editor. Unlike onboarding it
// does not gate on identity fields; saving replaces the stored snapshot.
type ProfileService struct {
	Profiles      *ProfileStorage
	RedirectDelay time.Duration
	Logger        *logrus.Logger
}

func NewProfileService(profiles *ProfileStorage, redirectDelay time.Duration, logger *logrus.Logger) *ProfileService {
	if redirectDelay < 0 {
		redirectDelay = DefaultSaveRedirectDelay
	}
	return &ProfileService{Profiles: profiles, RedirectDelay: redirectDelay, Logger: logger}
}

// GetProfile returns the stored profile, or a redirect to onboarding when the
// owner has none yet.
func (s *ProfileService) GetProfile(ctx context.Context, owner string) (*entity.Profile, *entity.Redirect, error) {
	p, err := s.Profiles.Load(ctx, owner)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, entity.RedirectTo(entity.ScreenOnboarding, 0), nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &p, nil, nil
}

type SaveResult struct {
	Profile      entity.Profile
	Notification entity.Notification
	Redirect     *entity.Redirect
}

// SaveProfile writes p as the owner's profile. The editor has no password
// field, so an empty password keeps the stored one; every other field is
// taken as given. There is no merge and no concurrency check.
func (s *ProfileService) SaveProfile(ctx context.Context, owner string, p entity.Profile) (*SaveResult, error) {
	if p.Password == "" {
		if prev, err := s.Profiles.Load(ctx, owner); err == nil {
			p.Password = prev.Password
		}
	}
	if err := s.Profiles.Save(ctx, owner, p); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("owner", owner).Warn("save profile failed")
		}
		return nil, err
	}
	metricProfilesSaved.Add(1)
	if s.Logger != nil {
		s.Logger.WithField("owner", owner).Info("profile saved")
	}
	return &SaveResult{
		Profile:      p,
		Notification: entity.Success(MsgProfileUpdated),
		Redirect:     entity.RedirectTo(entity.ScreenDashboard, s.RedirectDelay),
	}, nil
}
