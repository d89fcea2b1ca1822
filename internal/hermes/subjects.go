package hermes

const (
	SubjectAssessmentWildcard = "cloudassess.assessment.>"
	SubjectCatalogLoaded      = "cloudassess.catalog.loaded"

	StreamName   = "CLOUDASSESS_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

func SubjectAssessmentComputed(assessmentID string) string {
	return "cloudassess.assessment." + assessmentID + ".computed"
}

func SubjectAssessmentRejected(assessmentID string) string {
	return "cloudassess.assessment." + assessmentID + ".rejected"
}
