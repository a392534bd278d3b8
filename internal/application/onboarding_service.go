package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/smart-living/internal/domain/entity"
	repo "github.com/oksasatya/smart-living/internal/domain/repository"
)

var (
	ErrWizardNotFound   = errors.New("onboarding session not found")
	ErrWizardOwner      = errors.New("onboarding session belongs to another device")
	ErrUnknownField     = errors.New("unknown field")
	ErrUnknownAction    = errors.New("unknown action")
	ErrInvalidSelection = errors.New("invalid selection")
)

const MsgProfileCreated = "Profile created successfully!"

// OnboardingNotifier is told about finished onboardings, e.g. to queue a
// welcome email. Failures are logged and never undo the completion.
type OnboardingNotifier interface {
	ProfileCompleted(ctx context.Context, owner string, p entity.Profile) error
}

// OnboardingService drives the wizard across requests. Drafts live in the
// session store; only the terminal transition writes the profile.
type OnboardingService struct {
	Sessions repo.KeyValueStore
	Profiles *ProfileStorage
	Notifier OnboardingNotifier
	Logger   *logrus.Logger
	Now      func() time.Time
	// SessionTTL is the idle lifetime of a draft; every write renews it.
	SessionTTL time.Duration
}

const DefaultOnboardingSessionTTL = 24 * time.Hour

func NewOnboardingService(sessions repo.KeyValueStore, profiles *ProfileStorage, notifier OnboardingNotifier, logger *logrus.Logger) *OnboardingService {
	return &OnboardingService{
		Sessions:   sessions,
		Profiles:   profiles,
		Notifier:   notifier,
		Logger:     logger,
		Now:        time.Now,
		SessionTTL: DefaultOnboardingSessionTTL,
	}
}

func wizardKey(id string) string { return "onboarding:" + id }

func (s *OnboardingService) load(ctx context.Context, id, owner string) (*entity.Wizard, error) {
	raw, err := s.Sessions.Get(ctx, wizardKey(id))
	if errors.Is(err, repo.ErrKeyNotFound) {
		return nil, ErrWizardNotFound
	}
	if err != nil {
		return nil, err
	}
	var w entity.Wizard
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode onboarding session: %w", err)
	}
	if w.Owner != owner {
		return nil, ErrWizardOwner
	}
	return &w, nil
}

func (s *OnboardingService) store(ctx context.Context, w *entity.Wizard) error {
	b, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return s.Sessions.SetTTL(ctx, wizardKey(w.ID), b, s.SessionTTL)
}

// Start opens a new wizard on Step 1 with default values.
func (s *OnboardingService) Start(ctx context.Context, owner string) (*entity.Wizard, error) {
	w := entity.NewWizard(uuid.NewString(), owner, s.Now())
	if err := s.store(ctx, w); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("session_id", w.ID).Debug("onboarding started")
	}
	return w, nil
}

func (s *OnboardingService) Get(ctx context.Context, id, owner string) (*entity.Wizard, error) {
	return s.load(ctx, id, owner)
}

// DraftPatch carries the fields a client changed; nil means untouched.
// Numeric values are clamped the same way the input controls clamp them.
type DraftPatch struct {
	Name          *string        `json:"name"`
	Email         *string        `json:"email"`
	Password      *string        `json:"password"`
	HouseholdSize *int           `json:"householdSize"`
	Children      *int           `json:"children"`
	SchoolNeeds   []string       `json:"schoolNeeds"`
	Income        *int           `json:"income"`
	Education     *string        `json:"education"`
	Priorities    map[string]int `json:"priorities"`
	Gender        *string        `json:"gender"`
	Ethnicity     *string        `json:"ethnicity"`
}

func (d DraftPatch) apply(p *entity.Profile) error {
	if d.Name != nil {
		p.Name = *d.Name
	}
	if d.Email != nil {
		p.Email = *d.Email
	}
	if d.Password != nil {
		p.Password = *d.Password
	}
	if d.HouseholdSize != nil {
		p.HouseholdSize = entity.HouseholdSizeStepper().Clamp(*d.HouseholdSize)
	}
	if d.Children != nil {
		p.Children = entity.ChildrenStepper().Clamp(*d.Children)
	}
	if d.SchoolNeeds != nil {
		needs := make([]string, 0, len(d.SchoolNeeds))
		for _, n := range d.SchoolNeeds {
			if !entity.IsSchoolNeed(n) {
				return fmt.Errorf("%w: %w: %q", ErrInvalidSelection, entity.ErrUnknownSchoolNeed, n)
			}
			dup := false
			for _, have := range needs {
				if have == n {
					dup = true
					break
				}
			}
			if !dup {
				needs = append(needs, n)
			}
		}
		p.SchoolNeeds = needs
	}
	if d.Income != nil {
		p.Income = entity.IncomeStepper().Snap(*d.Income)
	}
	for k, v := range d.Priorities {
		if !p.Priorities.Set(k, v) {
			return fmt.Errorf("%w: priority %q", ErrUnknownField, k)
		}
	}
	if d.Education != nil {
		if *d.Education != "" && !entity.IsEducation(*d.Education) {
			return fmt.Errorf("%w: education %q", ErrInvalidSelection, *d.Education)
		}
		p.Education = *d.Education
	}
	if d.Gender != nil {
		p.Gender = *d.Gender
	}
	if d.Ethnicity != nil {
		p.Ethnicity = *d.Ethnicity
	}
	if err := p.CheckShape(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}
	return nil
}

// Update merges patch into the draft. A rejected patch changes nothing.
func (s *OnboardingService) Update(ctx context.Context, id, owner string, patch DraftPatch) (*entity.Wizard, error) {
	w, err := s.load(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	draft := w.Draft.Clone()
	if err := patch.apply(&draft); err != nil {
		return nil, err
	}
	w.Draft = draft
	if err := s.store(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

const (
	ActionIncrement = "increment"
	ActionDecrement = "decrement"
	ActionSet       = "set"
)

// Adjust applies a stepper action to householdSize, children or income, or
// sets one priority score (clamped to 0..10).
func (s *OnboardingService) Adjust(ctx context.Context, id, owner, field, action string, value int) (*entity.Wizard, error) {
	w, err := s.load(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if err := adjustField(&w.Draft, field, action, value); err != nil {
		return nil, err
	}
	if err := s.store(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func adjustField(p *entity.Profile, field, action string, value int) error {
	var (
		target  *int
		stepper entity.Stepper
	)
	switch field {
	case "householdSize":
		target, stepper = &p.HouseholdSize, entity.HouseholdSizeStepper()
	case "children":
		target, stepper = &p.Children, entity.ChildrenStepper()
	case "income":
		target, stepper = &p.Income, entity.IncomeStepper()
	default:
		if _, ok := p.Priorities.Get(field); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		if action != ActionSet {
			return fmt.Errorf("%w: %q on priority", ErrUnknownAction, action)
		}
		p.Priorities.Set(field, value)
		return nil
	}

	switch action {
	case ActionIncrement:
		*target = stepper.Increment(*target)
	case ActionDecrement:
		*target = stepper.Decrement(*target)
	case ActionSet:
		*target = stepper.Snap(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

func (s *OnboardingService) ToggleSchoolNeed(ctx context.Context, id, owner, need string) (*entity.Wizard, error) {
	w, err := s.load(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if err := w.Draft.ToggleSchoolNeed(need); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}
	if err := s.store(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Transition is the outcome of a forward or backward move.
type Transition struct {
	Wizard       *entity.Wizard
	Notification *entity.Notification
	Redirect     *entity.Redirect
}

// Next moves forward. A failed step gate returns *entity.WizardValidationError
// and leaves the session untouched. Leaving the last step persists the whole
// draft as the owner's profile and ends the session.
func (s *OnboardingService) Next(ctx context.Context, id, owner string) (*Transition, error) {
	w, err := s.load(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	done, err := w.Next()
	if err != nil {
		return nil, err
	}
	if !done {
		if err := s.store(ctx, w); err != nil {
			return nil, err
		}
		return &Transition{Wizard: w}, nil
	}
	return s.complete(ctx, w)
}

func (s *OnboardingService) complete(ctx context.Context, w *entity.Wizard) (*Transition, error) {
	// Claim the session first so a concurrent Next cannot complete it twice.
	if _, err := s.Sessions.Take(ctx, wizardKey(w.ID)); err != nil {
		if errors.Is(err, repo.ErrKeyNotFound) {
			return nil, entity.ErrWizardFinished
		}
		return nil, err
	}
	if err := s.Profiles.Save(ctx, w.Owner, w.Draft); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("session_id", w.ID).Error("persist onboarding profile failed")
		}
		// put the draft back on its last step so the user can retry
		w.Step = entity.StepDemographics
		if rerr := s.store(ctx, w); rerr != nil && s.Logger != nil {
			s.Logger.WithError(rerr).WithField("session_id", w.ID).Warn("restore onboarding session failed")
		}
		return nil, err
	}
	metricProfilesCompleted.Add(1)
	if s.Logger != nil {
		s.Logger.WithField("session_id", w.ID).WithField("owner", w.Owner).Info("onboarding completed")
	}
	if s.Notifier != nil {
		if err := s.Notifier.ProfileCompleted(ctx, w.Owner, w.Draft); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("owner", w.Owner).Warn("onboarding notifier failed")
		}
	}
	n := entity.Success(MsgProfileCreated)
	return &Transition{
		Wizard:       w,
		Notification: &n,
		Redirect:     entity.RedirectTo(entity.ScreenDashboard, 0),
	}, nil
}

// Back moves one step backwards without validation. On Step 1 it is a no-op.
func (s *OnboardingService) Back(ctx context.Context, id, owner string) (*Transition, error) {
	w, err := s.load(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if w.Back() {
		if err := s.store(ctx, w); err != nil {
			return nil, err
		}
	}
	return &Transition{Wizard: w}, nil
}
