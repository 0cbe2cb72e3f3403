// Package certificates provides structured field extraction from certificate
// text, authenticity validation against the submitter, and field-by-field
// cross-checking of two independently extracted records.
package certificates

// Record is the fixed schema of fields extracted from certificate text. The
// extractor populates every field verbatim from inference output; nothing is
// validated at this layer.
type Record struct {
	StudentName        string `json:"student_name"`
	RecordID           string `json:"record_id"`
	VerificationURL    string `json:"verification_url"`
	ExpirationDate     string `json:"expiration_date"`
	CurriculumGroup    string `json:"curriculum_group"`
	CourseLearnerGroup string `json:"course_learner_group"`
	UniversityName     string `json:"university_name"`
	GeneratedOn        string `json:"generated_on"`
}
