package certificates

import (
	"regexp"
	"strings"
)

// crossCheckFields lists every compared field with its human-readable label.
// The generated-on date is excluded: the authoritative document is generated
// at retrieval time and never shares it with the submitted copy.
var crossCheckFields = []struct {
	label string
	value func(*Record) string
}{
	{"Student Name", func(r *Record) string { return r.StudentName }},
	{"Record Id", func(r *Record) string { return r.RecordID }},
	{"Verification Url", func(r *Record) string { return r.VerificationURL }},
	{"Expiration Date", func(r *Record) string { return r.ExpirationDate }},
	{"Curriculum Group", func(r *Record) string { return r.CurriculumGroup }},
	{"Course Learner Group", func(r *Record) string { return r.CourseLearnerGroup }},
	{"University Name", func(r *Record) string { return r.UniversityName }},
}

var parenthetical = regexp.MustCompile(`\(.*?\)`)

// CrossCheck compares two independently extracted records field by field and
// returns the labels of fields that disagree after normalization. An empty
// list means the records match.
func CrossCheck(first, second *Record) []string {
	var mismatched []string
	for _, field := range crossCheckFields {
		if normalizeValue(field.value(first)) != normalizeValue(field.value(second)) {
			mismatched = append(mismatched, field.label)
		}
	}
	return mismatched
}

// normalizeValue strips parenthetical annotations, removes all whitespace,
// and lower-cases the result.
func normalizeValue(value string) string {
	value = parenthetical.ReplaceAllString(value, "")
	return strings.ToLower(strings.Join(strings.Fields(value), ""))
}
