package core

import "polarec/internal/dataset"

// Column names as they appear in the source files. The environment loggers
// write English headers; the growth workbook uses the Korean labels of the
// original measurement sheets. The two derived columns (school, EC) are
// appended when growth sheets are combined.
const (
	ColTime        = "time"
	ColTemperature = "temperature"
	ColHumidity    = "humidity"
	ColPH          = "ph"

	ColWeight = "생중량(g)"
	ColLeaves = "잎 수(장)"
	ColLength = "지상부 길이(mm)"

	ColSchool = "학교"
	ColEC     = "EC"
)

// GrowthKey is the base logical key of the growth workbook; each sheet loads
// under GrowthKey/<sheet name>.
const GrowthKey = "growth"

// GrowthWorkbookFile is the fixed name of the multi-sheet growth workbook.
const GrowthWorkbookFile = "4개교_생육결과데이터.xlsx"

// EnvFileName returns the expected environment CSV name for a school.
func EnvFileName(school string) string {
	return school + "_환경데이터.csv"
}

// Requests builds the load batch for the study: one environment CSV per
// mapped school, keyed by school, plus the growth workbook. Each request
// names the columns its consumers index into, so a file with misnamed
// headers is reported as a parse error instead of loading.
func Requests(conditions Conditions) []dataset.Request {
	envCols := []string{ColTime, ColTemperature, ColHumidity, ColPH}
	growthCols := []string{ColWeight, ColLeaves, ColLength}

	var reqs []dataset.Request
	for _, school := range conditions.Schools() {
		reqs = append(reqs, dataset.Request{
			File:    EnvFileName(school),
			Key:     school,
			Columns: envCols,
		})
	}
	reqs = append(reqs, dataset.Request{
		File:    GrowthWorkbookFile,
		Key:     GrowthKey,
		Columns: growthCols,
	})
	return reqs
}
