package entity

// Stepper is a bounded integer counter. It holds no value of its own; callers
// pass the current value and receive the next one, always inside [Min, Max].
type Stepper struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step"`
}

// DefaultStepper uses the [0,10] bounds of the household counters.
func DefaultStepper() Stepper { return Stepper{Min: 0, Max: 10, Step: 1} }

func HouseholdSizeStepper() Stepper {
	return Stepper{Min: MinHouseholdSize, Max: MaxHouseholdSize, Step: 1}
}
func ChildrenStepper() Stepper { return Stepper{Min: MinChildren, Max: MaxChildren, Step: 1} }
func IncomeStepper() Stepper   { return Stepper{Min: MinIncome, Max: MaxIncome, Step: IncomeStep} }

func (s Stepper) step() int {
	if s.Step <= 0 {
		return 1
	}
	return s.Step
}

// Clamp pins v into [Min, Max].
func (s Stepper) Clamp(v int) int {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// Snap clamps v and rounds it down onto the Min+k*Step grid.
func (s Stepper) Snap(v int) int {
	v = s.Clamp(v)
	return v - (v-s.Min)%s.step()
}

// Increment is a no-op at or above Max.
func (s Stepper) Increment(v int) int {
	v = s.Clamp(v)
	if v >= s.Max {
		return v
	}
	return s.Clamp(v + s.step())
}

// Decrement is a no-op at or below Min.
func (s Stepper) Decrement(v int) int {
	v = s.Clamp(v)
	if v <= s.Min {
		return v
	}
	return s.Clamp(v - s.step())
}

// CanIncrement / CanDecrement mirror the disabled state of the +/- buttons.
func (s Stepper) CanIncrement(v int) bool { return v < s.Max }
func (s Stepper) CanDecrement(v int) bool { return v > s.Min }

const (
	LabelNotImportant      = "Not Important"
	LabelSomewhatImportant = "Somewhat Important"
	LabelImportant         = "Important"
	LabelVeryImportant     = "Very Important"
)

// ClampPriority behaves like the 0..10 range control backing a priority slider.
func ClampPriority(v int) int {
	if v < MinPriority {
		return MinPriority
	}
	if v > MaxPriority {
		return MaxPriority
	}
	return v
}

// PriorityLabel is display-only and never feeds back into the stored score.
func PriorityLabel(v int) string {
	switch {
	case v <= 2:
		return LabelNotImportant
	case v <= 4:
		return LabelSomewhatImportant
	case v <= 7:
		return LabelImportant
	default:
		return LabelVeryImportant
	}
}
