package enums

import "fmt"

// QualityGrade ranks supplier inventory quality. A is the best grade.
type QualityGrade string

const (
	QualityGradeA QualityGrade = "A"
	QualityGradeB QualityGrade = "B"
	QualityGradeC QualityGrade = "C"
)

var validQualityGrades = []QualityGrade{
	QualityGradeA,
	QualityGradeB,
	QualityGradeC,
}

// String implements fmt.Stringer.
func (q QualityGrade) String() string {
	return string(q)
}

// IsValid reports whether the value is a known QualityGrade.
func (q QualityGrade) IsValid() bool {
	for _, candidate := range validQualityGrades {
		if candidate == q {
			return true
		}
	}
	return false
}

// Rank returns a sortable rank where lower is better. Unknown grades sort last.
func (q QualityGrade) Rank() int {
	for i, candidate := range validQualityGrades {
		if candidate == q {
			return i
		}
	}
	return len(validQualityGrades)
}

// ParseQualityGrade converts raw input into a QualityGrade.
func ParseQualityGrade(value string) (QualityGrade, error) {
	for _, candidate := range validQualityGrades {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quality grade %q", value)
}
