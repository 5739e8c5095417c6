package editor

// QuestionType is the form field type of a question row.
type QuestionType string

const (
	TypeText           QuestionType = "text"
	TypeMultiLine      QuestionType = "multiline"
	TypeEmail          QuestionType = "email"
	TypeNumber         QuestionType = "number"
	TypePositiveNumber QuestionType = "positive_number"
	TypeURL            QuestionType = "url"
	TypeDate           QuestionType = "date"
	TypeDateTime       QuestionType = "datetime"
	TypeHidden         QuestionType = "hidden"
	TypeCheckbox       QuestionType = "checkbox"
	TypeCheckboxes     QuestionType = "checkboxes"
	TypeDropdown       QuestionType = "dropdown"
	TypeRadio          QuestionType = "radio"
)

var questionTypes = map[QuestionType]struct{}{
	TypeText:           {},
	TypeMultiLine:      {},
	TypeEmail:          {},
	TypeNumber:         {},
	TypePositiveNumber: {},
	TypeURL:            {},
	TypeDate:           {},
	TypeDateTime:       {},
	TypeHidden:         {},
	TypeCheckbox:       {},
	TypeCheckboxes:     {},
	TypeDropdown:       {},
	TypeRadio:          {},
}

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	_, ok := questionTypes[t]
	return ok
}

// SkipCapable reports whether questions of this type carry a choice list
// with skip logic attached to it.
func (t QuestionType) SkipCapable() bool {
	switch t {
	case TypeRadio, TypeCheckbox, TypeDropdown, TypeCheckboxes:
		return true
	}
	return false
}

// QuestionTypes lists every known type, used for validation tags.
func QuestionTypes() []QuestionType {
	return []QuestionType{
		TypeText, TypeMultiLine, TypeEmail, TypeNumber, TypePositiveNumber, TypeURL,
		TypeDate, TypeDateTime, TypeHidden, TypeCheckbox, TypeCheckboxes, TypeDropdown, TypeRadio,
	}
}

// SkipAction is where a respondent goes after answering a question.
type SkipAction string

const (
	SkipNext     SkipAction = "next"
	SkipEnd      SkipAction = "end"
	SkipQuestion SkipAction = "question"
	SkipSurvey   SkipAction = "survey"
)

// Valid reports whether a is a known skip action.
func (a SkipAction) Valid() bool {
	switch a {
	case SkipNext, SkipEnd, SkipQuestion, SkipSurvey:
		return true
	}
	return false
}
