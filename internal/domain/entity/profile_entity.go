package entity

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinHouseholdSize = 1
	MaxHouseholdSize = 10
	MinChildren      = 0
	MaxChildren      = 10
	MinIncome        = 30000
	MaxIncome        = 300000
	IncomeStep       = 5000
	MinPriority      = 0
	MaxPriority      = 10

	DefaultHouseholdSize = 1
	DefaultIncome        = 75000
	DefaultPriority      = 5
)

var (
	ErrInvalidProfile    = errors.New("invalid profile")
	ErrUnknownSchoolNeed = errors.New("unknown school need")
)

// Option is a selectable enumeration value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var SchoolNeedOptions = []Option{
	{"Elementary", "Elementary"},
	{"Middle School", "Middle School"},
	{"High School", "High School"},
	{"Special Education", "Special Education"},
}

var EducationOptions = []Option{
	{"high-school", "High School"},
	{"some-college", "Some College"},
	{"bachelors", "Bachelor's Degree"},
	{"masters", "Master's Degree"},
	{"doctorate", "Doctorate"},
}

var GenderOptions = []Option{
	{"male", "Male"},
	{"female", "Female"},
	{"non-binary", "Non-binary"},
	{"other", "Other"},
	{"prefer-not", "Prefer not to say"},
}

var EthnicityOptions = []Option{
	{"white", "White"},
	{"black", "Black or African American"},
	{"hispanic", "Hispanic or Latino"},
	{"asian", "Asian"},
	{"native", "Native American"},
	{"pacific", "Pacific Islander"},
	{"other", "Other"},
	{"prefer-not", "Prefer not to say"},
}

func hasOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

func IsSchoolNeed(v string) bool { return hasOption(SchoolNeedOptions, v) }
func IsEducation(v string) bool  { return hasOption(EducationOptions, v) }

// Priorities always carries all five lifestyle dimensions.
type Priorities struct {
	Safety         int `json:"safety" validate:"gte=0,lte=10"`
	Walkability    int `json:"walkability" validate:"gte=0,lte=10"`
	FamilyFriendly int `json:"familyFriendly" validate:"gte=0,lte=10"`
	Nightlife      int `json:"nightlife" validate:"gte=0,lte=10"`
	Quiet          int `json:"quiet" validate:"gte=0,lte=10"`
}

// PriorityKeys lists the dimension keys in display order.
var PriorityKeys = []string{"safety", "walkability", "familyFriendly", "nightlife", "quiet"}

func DefaultPriorities() Priorities {
	return Priorities{
		Safety:         DefaultPriority,
		Walkability:    DefaultPriority,
		FamilyFriendly: DefaultPriority,
		Nightlife:      DefaultPriority,
		Quiet:          DefaultPriority,
	}
}

func (p *Priorities) ref(key string) *int {
	switch key {
	case "safety":
		return &p.Safety
	case "walkability":
		return &p.Walkability
	case "familyFriendly":
		return &p.FamilyFriendly
	case "nightlife":
		return &p.Nightlife
	case "quiet":
		return &p.Quiet
	}
	return nil
}

// Get returns the score for key and whether the key is one of the five dimensions.
func (p Priorities) Get(key string) (int, bool) {
	r := p.ref(key)
	if r == nil {
		return 0, false
	}
	return *r, true
}

// Set stores a clamped score; unknown keys are rejected.
func (p *Priorities) Set(key string, v int) bool {
	r := p.ref(key)
	if r == nil {
		return false
	}
	*r = ClampPriority(v)
	return true
}

// Labels maps every dimension to its importance band.
func (p Priorities) Labels() map[string]string {
	out := make(map[string]string, len(PriorityKeys))
	for _, k := range PriorityKeys {
		v, _ := p.Get(k)
		out[k] = PriorityLabel(v)
	}
	return out
}

// Profile is the household, financial and lifestyle record built by onboarding.
// The password is kept as entered; hashing it is out of scope for this product.
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`

	HouseholdSize int      `json:"householdSize" validate:"gte=1,lte=10"`
	Children      int      `json:"children" validate:"gte=0,lte=10"`
	SchoolNeeds   []string `json:"schoolNeeds" validate:"unique,dive,schoolneed"`

	Income     int        `json:"income" validate:"gte=30000,lte=300000,incomestep"`
	Education  string     `json:"education" validate:"omitempty,education"`
	Priorities Priorities `json:"priorities"`

	Gender    string `json:"gender" validate:"omitempty,gender"`
	Ethnicity string `json:"ethnicity" validate:"omitempty,ethnicity"`
}

// NewProfile returns the defaults shown when onboarding starts.
func NewProfile() Profile {
	return Profile{
		HouseholdSize: DefaultHouseholdSize,
		Children:      0,
		SchoolNeeds:   []string{},
		Income:        DefaultIncome,
		Priorities:    DefaultPriorities(),
	}
}

func (p Profile) Clone() Profile {
	out := p
	out.SchoolNeeds = append([]string{}, p.SchoolNeeds...)
	return out
}

// ToggleSchoolNeed adds need if absent and removes it if present.
func (p *Profile) ToggleSchoolNeed(need string) error {
	if !IsSchoolNeed(need) {
		return fmt.Errorf("%w: %q", ErrUnknownSchoolNeed, need)
	}
	for i, n := range p.SchoolNeeds {
		if n == need {
			p.SchoolNeeds = append(p.SchoolNeeds[:i:i], p.SchoolNeeds[i+1:]...)
			return nil
		}
	}
	p.SchoolNeeds = append(p.SchoolNeeds, need)
	return nil
}

func (p Profile) HasSchoolNeed(need string) bool {
	for _, n := range p.SchoolNeeds {
		if n == need {
			return true
		}
	}
	return false
}

// FirstName is the first whitespace-separated word of Name.
func (p Profile) FirstName() string {
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// RecommendationInput is the reduced view sent to the recommendation client.
func (p Profile) RecommendationInput() RecommendationInput {
	return RecommendationInput{
		HouseholdSize:    p.HouseholdSize,
		NumberOfChildren: p.Children,
		AnnualIncome:     p.Income,
		Priorities:       p.Priorities,
	}
}

// CheckShape enforces the structural invariants of a profile: numeric bounds,
// enumeration membership and set semantics. Identity fields are not required
// here; that gate belongs to the onboarding wizard.
func (p Profile) CheckShape() error {
	if err := shapeValidator.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	return nil
}

var shapeValidator = newShapeValidator()

func newShapeValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterValidations adds the profile enumeration tags (schoolneed,
// education, gender, ethnicity, incomestep) to v.
func RegisterValidations(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"schoolneed": optionValidator(SchoolNeedOptions),
		"education":  optionValidator(EducationOptions),
		"gender":     optionValidator(GenderOptions),
		"ethnicity":  optionValidator(EthnicityOptions),
		"incomestep": func(fl validator.FieldLevel) bool {
			return (fl.Field().Int()-MinIncome)%IncomeStep == 0
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func optionValidator(opts []Option) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return hasOption(opts, fl.Field().String())
	}
}

// ShapeValidator exposes the configured validator so other layers can reuse
// the profile enumeration tags.
func ShapeValidator() *validator.Validate { return shapeValidator }
