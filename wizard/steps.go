package wizard

import "time"

type Step string

const (
	StepContact Step = "contact"
	StepNature  Step = "nature"
	StepEvent   Step = "event"
	StepQuicket Step = "quicket"
	StepDigital Step = "digital"
	StepPrint   Step = "print"
	StepSignage Step = "signage"
)

var stepTitles = map[Step]string{
	StepContact: "Contact Details",
	StepNature:  "Nature of Request",
	StepEvent:   "Event Details",
	StepQuicket: "Registration",
	StepDigital: "Digital Media",
	StepPrint:   "Print Media",
	StepSignage: "Signage",
}

func (s Step) Title() string { return stepTitles[s] }

var validators = map[Step]Validator{
	StepContact: ValidateContact,
	StepNature:  ValidateNature,
	StepEvent:   ValidateEventDetails,
	StepQuicket: ValidateQuicket,
	StepDigital: ValidateDigital,
	StepPrint:   ValidatePrint,
	StepSignage: ValidateSignage,
}

// VisibleSteps returns the navigation sequence for d. The order is fixed;
// toggles only decide which optional steps take part.
func VisibleSteps(d *FormData) []Step {
	steps := []Step{StepContact, StepNature}
	if d.IncludesDatesVenue {
		steps = append(steps, StepEvent)
	}
	if d.IncludesRegistration {
		steps = append(steps, StepQuicket)
	}
	if d.IncludesGraphicsDigital {
		steps = append(steps, StepDigital)
	}
	if d.IncludesGraphicsPrint {
		steps = append(steps, StepPrint)
	}
	if d.IncludesSignage {
		steps = append(steps, StepSignage)
	}
	return steps
}

func ValidateStep(step Step, d *FormData, today time.Time) Errors {
	v, ok := validators[step]
	if !ok {
		return Errors{}
	}
	return v(d, today)
}

// Gate returns the highest reachable step index. It is the first visible
// step that fails validation, or the last step when every step passes.
func Gate(d *FormData, today time.Time) (maxEnabledIndex int, allValid bool) {
	steps := VisibleSteps(d)
	for i, step := range steps {
		if !ValidateStep(step, d, today).Valid() {
			return i, false
		}
	}
	return len(steps) - 1, true
}

// ValidateAll collects the errors of every visible step.
func ValidateAll(d *FormData, today time.Time) Errors {
	errs := Errors{}
	for _, step := range VisibleSteps(d) {
		errs.Merge(ValidateStep(step, d, today))
	}
	return errs
}

// Derive applies the cross-field rules that must hold after any change.
// prev is the state before the change.
func Derive(prev, next *FormData) {
	if next.IncludesDatesVenue || next.IncludesRegistration {
		next.IncludesGraphics = true
		next.IncludesGraphicsDigital = true
	}
	if next.IsOrganiser == Yes && prev.IsOrganiser != Yes {
		next.OrganiserFirstName = next.FirstName
		next.OrganiserLastName = next.LastName
		next.OrganiserEmail = next.Email
		next.OrganiserCellphone = next.Cellphone
		next.OrganiserCongregation = next.Congregation
	}
}
