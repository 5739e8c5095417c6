package config

type WorkerKeyStruct struct {
	SurveySubmitQueue string
	// SurveySubmitDeadQueue holds submissions the store rejected for good.
	SurveySubmitDeadQueue string
}

var WorkerKey = &WorkerKeyStruct{
	SurveySubmitQueue:     "survey_submit_queue",
	SurveySubmitDeadQueue: "survey_submit_dead",
}
