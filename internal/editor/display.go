package editor

// DisplayOptions holds the mutually exclusive "multi-step" and "display
// survey directly" checkboxes. Checking one disables the other.
type DisplayOptions struct {
	multiStep       bool
	displayDirectly bool
}

// DisplayState is the rendered state of both checkboxes.
type DisplayState struct {
	MultiStep              bool `json:"multi_step"`
	DisplayDirectly        bool `json:"display_survey_directly"`
	MultiStepEnabled       bool `json:"multi_step_enabled"`
	DisplayDirectlyEnabled bool `json:"display_survey_directly_enabled"`
}

// NewDisplayOptions initialises from the stored values. Multi-step wins
// when both are set.
func NewDisplayOptions(multiStep, displayDirectly bool) *DisplayOptions {
	if multiStep {
		displayDirectly = false
	}
	return &DisplayOptions{multiStep: multiStep, displayDirectly: displayDirectly}
}

// SetMultiStep checks or unchecks multi-step.
func (d *DisplayOptions) SetMultiStep(on bool) error {
	if on == d.multiStep {
		return nil
	}
	if d.displayDirectly {
		return ErrOptionDisabled
	}
	d.multiStep = on
	return nil
}

// SetDisplayDirectly checks or unchecks display-survey-directly.
func (d *DisplayOptions) SetDisplayDirectly(on bool) error {
	if on == d.displayDirectly {
		return nil
	}
	if d.multiStep {
		return ErrOptionDisabled
	}
	d.displayDirectly = on
	return nil
}

// State returns both values and whether each checkbox is enabled.
func (d *DisplayOptions) State() DisplayState {
	return DisplayState{
		MultiStep:              d.multiStep,
		DisplayDirectly:        d.displayDirectly,
		MultiStepEnabled:       !d.displayDirectly,
		DisplayDirectlyEnabled: !d.multiStep,
	}
}

// Apply sets both checkboxes in one step, unchecking before checking so a
// swap from one option to the other is accepted. On error nothing changes.
func (d *DisplayOptions) Apply(multiStep, displayDirectly bool) error {
	prev := *d

	var err error
	if !multiStep {
		err = d.SetMultiStep(false)
	}
	if err == nil && !displayDirectly {
		err = d.SetDisplayDirectly(false)
	}
	if err == nil && multiStep {
		err = d.SetMultiStep(true)
	}
	if err == nil && displayDirectly {
		err = d.SetDisplayDirectly(true)
	}

	if err != nil {
		*d = prev
	}
	return err
}
