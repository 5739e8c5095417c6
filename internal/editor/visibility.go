package editor

// SkipLogicMode tells which skip-logic target fields a question type offers.
type SkipLogicMode string

const (
	ModeNone           SkipLogicMode = "none"
	ModeChoice         SkipLogicMode = "choice"
	ModeChoiceQuestion SkipLogicMode = "choice_question"
)

// Visibility is the set of controls shown for a question type.
type Visibility struct {
	ShowChoices   bool          `json:"show_choices"`
	ShowSkipLogic bool          `json:"show_skip_logic"`
	Mode          SkipLogicMode `json:"skip_logic_mode"`
}

// FieldVisibility is Visibility resolved against the chosen skip action.
type FieldVisibility struct {
	Choices        bool `json:"choices"`
	SkipLogic      bool `json:"skip_logic"`
	QuestionTarget bool `json:"question_target"`
	SurveyTarget   bool `json:"survey_target"`
}

// ComputeVisibility decides which controls a question of type t shows.
// Only checkbox questions may point at an arbitrary later question; the other
// skip-capable types stay in choice-only mode.
func ComputeVisibility(t QuestionType) Visibility {
	if !t.SkipCapable() {
		return Visibility{Mode: ModeNone}
	}
	v := Visibility{ShowChoices: true, ShowSkipLogic: true, Mode: ModeChoice}
	if t == TypeCheckbox {
		v.Mode = ModeChoiceQuestion
	}
	return v
}

// Fields resolves the per-field flags. The survey target is only shown
// while the action is SkipSurvey.
func (v Visibility) Fields(action SkipAction) FieldVisibility {
	return FieldVisibility{
		Choices:        v.ShowChoices,
		SkipLogic:      v.ShowSkipLogic,
		QuestionTarget: v.Mode == ModeChoiceQuestion,
		SurveyTarget:   v.ShowSkipLogic && action == SkipSurvey,
	}
}
