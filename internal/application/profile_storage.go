package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oksasatya/smart-living/internal/domain/entity"
	repo "github.com/oksasatya/smart-living/internal/domain/repository"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrCorruptProfile  = errors.New("corrupt profile")
)

// ProfileKey is the well-known storage key of an owner's profile snapshot.
func ProfileKey(owner string) string { return "userData:" + owner }

// ProfileStorage is the single read/write boundary for stored profiles. Every
// read is validated; a snapshot that does not match the profile shape is
// reported as ErrCorruptProfile instead of being partially trusted.
type ProfileStorage struct {
	Store repo.KeyValueStore
}

func NewProfileStorage(store repo.KeyValueStore) *ProfileStorage {
	return &ProfileStorage{Store: store}
}

type storedPriorities struct {
	Safety         *int `json:"safety" validate:"required"`
	Walkability    *int `json:"walkability" validate:"required"`
	FamilyFriendly *int `json:"familyFriendly" validate:"required"`
	Nightlife      *int `json:"nightlife" validate:"required"`
	Quiet          *int `json:"quiet" validate:"required"`
}

// storedProfile mirrors entity.Profile with pointers so missing keys are
// distinguishable from zero values. Demographics may be absent.
type storedProfile struct {
	Name          *string           `json:"name" validate:"required"`
	Email         *string           `json:"email" validate:"required"`
	Password      *string           `json:"password" validate:"required"`
	HouseholdSize *int              `json:"householdSize" validate:"required"`
	Children      *int              `json:"children" validate:"required"`
	SchoolNeeds   []string          `json:"schoolNeeds" validate:"required"`
	Income        *int              `json:"income" validate:"required"`
	Education     *string           `json:"education" validate:"required"`
	Priorities    *storedPriorities `json:"priorities" validate:"required"`
	Gender        *string           `json:"gender"`
	Ethnicity     *string           `json:"ethnicity"`
}

func (s storedProfile) toEntity() entity.Profile {
	p := entity.Profile{
		Name:          *s.Name,
		Email:         *s.Email,
		Password:      *s.Password,
		HouseholdSize: *s.HouseholdSize,
		Children:      *s.Children,
		SchoolNeeds:   append([]string{}, s.SchoolNeeds...),
		Income:        *s.Income,
		Education:     *s.Education,
		Priorities: entity.Priorities{
			Safety:         *s.Priorities.Safety,
			Walkability:    *s.Priorities.Walkability,
			FamilyFriendly: *s.Priorities.FamilyFriendly,
			Nightlife:      *s.Priorities.Nightlife,
			Quiet:          *s.Priorities.Quiet,
		},
	}
	if s.Gender != nil {
		p.Gender = *s.Gender
	}
	if s.Ethnicity != nil {
		p.Ethnicity = *s.Ethnicity
	}
	return p
}

// DecodeProfile parses and validates a stored snapshot.
func DecodeProfile(raw []byte) (entity.Profile, error) {
	var s storedProfile
	if err := json.Unmarshal(raw, &s); err != nil {
		return entity.Profile{}, fmt.Errorf("%w: %w", ErrCorruptProfile, err)
	}
	if err := entity.ShapeValidator().Struct(s); err != nil {
		return entity.Profile{}, fmt.Errorf("%w: %w", ErrCorruptProfile, err)
	}
	p := s.toEntity()
	if err := p.CheckShape(); err != nil {
		return entity.Profile{}, fmt.Errorf("%w: %w", ErrCorruptProfile, err)
	}
	return p, nil
}

func (s *ProfileStorage) Load(ctx context.Context, owner string) (entity.Profile, error) {
	raw, err := s.Store.Get(ctx, ProfileKey(owner))
	if errors.Is(err, repo.ErrKeyNotFound) {
		return entity.Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return entity.Profile{}, err
	}
	return DecodeProfile(raw)
}

// Save writes the full snapshot, replacing any previous one.
func (s *ProfileStorage) Save(ctx context.Context, owner string, p entity.Profile) error {
	if err := p.CheckShape(); err != nil {
		return err
	}
	if p.SchoolNeeds == nil {
		p.SchoolNeeds = []string{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, ProfileKey(owner), b)
}

func (s *ProfileStorage) Clear(ctx context.Context, owner string) error {
	return s.Store.Clear(ctx, ProfileKey(owner))
}
