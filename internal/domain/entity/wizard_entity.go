package entity

import (
	"errors"
	"math"
	"time"
)

// WizardStep is a state of the onboarding flow.
type WizardStep int

const (
	StepAccount WizardStep = iota + 1
	StepHousehold
	StepFinancial
	StepDemographics
	StepComplete
)

// TotalWizardSteps counts the input steps; StepComplete is terminal, not a page.
const TotalWizardSteps = 4

func (s WizardStep) String() string {
	switch s {
	case StepAccount:
		return "account"
	case StepHousehold:
		return "household"
	case StepFinancial:
		return "financial"
	case StepDemographics:
		return "demographics"
	case StepComplete:
		return "complete"
	default:
		return "unknown"
	}
}

const (
	MsgRequiredAccountFields = "Please fill in all required fields"
	MsgEducationRequired     = "Please select your education level"
)

var (
	ErrWizardValidation = errors.New("wizard step validation failed")
	ErrWizardFinished   = errors.New("wizard already completed")
)

// WizardValidationError carries the user-visible message of a rejected
// forward transition.
type WizardValidationError struct {
	Step    WizardStep
	Message string
}

func (e *WizardValidationError) Error() string { return e.Message }
func (e *WizardValidationError) Unwrap() error { return ErrWizardValidation }

// Wizard is a linear onboarding flow over a draft Profile. Transitions are
// pure; persisting the finished draft is the caller's job.
type Wizard struct {
	ID        string     `json:"id"`
	Owner     string     `json:"owner"`
	Step      WizardStep `json:"step"`
	Draft     Profile    `json:"draft"`
	StartedAt time.Time  `json:"started_at"`
}

func NewWizard(id, owner string, now time.Time) *Wizard {
	return &Wizard{ID: id, Owner: owner, Step: StepAccount, Draft: NewProfile(), StartedAt: now.UTC()}
}

func (w *Wizard) Completed() bool { return w.Step == StepComplete }

// gate reports why the current step may not be left going forward.
func (w *Wizard) gate() error {
	switch w.Step {
	case StepAccount:
		if w.Draft.Name == "" || w.Draft.Email == "" || w.Draft.Password == "" {
			return &WizardValidationError{Step: w.Step, Message: MsgRequiredAccountFields}
		}
	case StepFinancial:
		if w.Draft.Education == "" {
			return &WizardValidationError{Step: w.Step, Message: MsgEducationRequired}
		}
	}
	return nil
}

// Next advances one step. It returns true when the transition reached
// StepComplete. A rejected transition leaves the step unchanged.
func (w *Wizard) Next() (bool, error) {
	if w.Completed() {
		return false, ErrWizardFinished
	}
	if err := w.gate(); err != nil {
		return false, err
	}
	w.Step++
	return w.Completed(), nil
}

// Back moves one step backwards. It is a no-op on the first step and after
// completion.
func (w *Wizard) Back() bool {
	if w.Step <= StepAccount || w.Completed() {
		return false
	}
	w.Step--
	return true
}

// Progress is the completion percentage shown above the form.
func (w *Wizard) Progress() int {
	step := int(w.Step)
	if step > TotalWizardSteps {
		step = TotalWizardSteps
	}
	return int(math.Round(float64(step) / TotalWizardSteps * 100))
}
