package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/smart-living/internal/domain/entity"
)

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"

	MsgRecommendationsFailed = "We couldn't generate personalized recommendations right now. Showing sample neighborhoods instead."
	MsgCorruptProfile        = "Your saved profile could not be read. Please complete onboarding again."
)

// Recommender is what the dashboard needs from the recommendation client.
type Recommender interface {
	Recommend(ctx context.Context, in entity.RecommendationInput) ([]entity.NeighborhoodRecommendation, error)
}

type DashboardService struct {
	Profiles    *ProfileStorage
	Recommender Recommender
	Logger      *logrus.Logger
}

func NewDashboardService(profiles *ProfileStorage, rec Recommender, logger *logrus.Logger) *DashboardService {
	return &DashboardService{Profiles: profiles, Recommender: rec, Logger: logger}
}

// DashboardView is everything the dashboard screen renders.
type DashboardView struct {
	Greeting        string                              `json:"greeting,omitempty"`
	Profile         *entity.Profile                     `json:"-"`
	Recommendations []entity.NeighborhoodRecommendation `json:"recommendations,omitempty"`
	Source          string                              `json:"source,omitempty"`
	Notifications   []entity.Notification               `json:"-"`
	Redirect        *entity.Redirect                    `json:"-"`
}

// Load reads the owner's profile and asks for recommendations once. Without a
// profile the view only carries a redirect to onboarding and nothing is
// requested. A failed request is replaced by the fixed sample set.
func (s *DashboardService) Load(ctx context.Context, owner string) (*DashboardView, error) {
	p, err := s.Profiles.Load(ctx, owner)
	if errors.Is(err, ErrProfileNotFound) {
		return &DashboardView{Redirect: entity.RedirectTo(entity.ScreenOnboarding, 0)}, nil
	}
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("owner", owner).Error("load profile failed")
		}
		return nil, err
	}

	view := &DashboardView{
		Greeting: p.FirstName(),
		Profile:  &p,
	}

	recs, err := s.Recommender.Recommend(ctx, p.RecommendationInput())
	if err != nil {
		metricFallbacksServed.Add(1)
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("owner", owner).Warn("serving fallback recommendations")
		}
		view.Recommendations = entity.FallbackRecommendations()
		view.Source = SourceFallback
		view.Notifications = append(view.Notifications, entity.Warning(MsgRecommendationsFailed))
		return view, nil
	}

	view.Recommendations = recs
	view.Source = SourceAI
	return view, nil
}
