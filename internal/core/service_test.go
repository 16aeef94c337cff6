package core

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"polarec/internal/dataset"
	"polarec/internal/table"
)

// testConditions is a two-school mapping so fixtures stay small.
func testConditions() Conditions {
	return Conditions{"송도고": 1.0, "하늘고": 2.0}
}

// writeStudyDir builds a data directory with one environment CSV per school
// in growthSheets plus the growth workbook. Filenames are written in NFD to
// exercise the normalization-tolerant resolver on every load.
func writeStudyDir(t *testing.T, growthSheets map[string][][]string) string {
	t.Helper()
	dir := t.TempDir()

	for school := range growthSheets {
		name := norm.NFD.String(EnvFileName(school))
		content := "time,temperature,humidity,ph\n" +
			"09:00,21.5,40.1,6.2\n" +
			"10:00,22.0,41.0,6.3\n"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()
	for school, rows := range growthSheets {
		if _, err := f.NewSheet(school); err != nil {
			t.Fatal(err)
		}
		for i, row := range rows {
			cells := make([]interface{}, len(row))
			for j, v := range row {
				cells[j] = v
			}
			addr, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetSheetRow(school, addr, &cells); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, norm.NFD.String(GrowthWorkbookFile))
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}

	return dir
}

func growthHeader() []string {
	return []string{ColWeight, ColLeaves, ColLength}
}

func TestConditions_LookupSentinel(t *testing.T) {
	c := DefaultConditions()

	ec, ok := c.Lookup("하늘고")
	if !ok || ec != 2.0 {
		t.Errorf("Lookup(하늘고) = %v, %v, want 2.0, true", ec, ok)
	}

	ec, ok = c.Lookup("없는학교")
	if ok {
		t.Errorf("Lookup(없는학교) ok = true, want false")
	}
	if ec != 0 {
		t.Errorf("Lookup miss returned ec = %v; callers must gate on ok", ec)
	}
}

func TestConditions_SchoolsOrderedByEC(t *testing.T) {
	got := DefaultConditions().Schools()
	want := []string{"송도고", "하늘고", "아라고", "동산고"}
	if len(got) != len(want) {
		t.Fatalf("Schools() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Schools()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReload_BuildsSnapshot(t *testing.T) {
	dir := writeStudyDir(t, map[string][][]string{
		"송도고": {growthHeader(), {"10.2", "8", "120"}, {"11.0", "9", "130"}},
		"하늘고": {growthHeader(), {"14.8", "11", "150"}},
	})

	svc := NewService(dir, testConditions())
	snap, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if len(snap.Env) != 2 {
		t.Errorf("len(Env) = %d, want 2", len(snap.Env))
	}
	if len(snap.Growth) != 2 {
		t.Errorf("len(Growth) = %d, want 2", len(snap.Growth))
	}
	// Combined rows = sum of sheet rows
	if got := snap.Combined.RowCount(); got != 3 {
		t.Errorf("Combined.RowCount() = %d, want 3", got)
	}
	for _, col := range []string{ColSchool, ColEC, ColWeight, ColLeaves, ColLength} {
		if !snap.Combined.HasColumn(col) {
			t.Errorf("Combined missing column %q", col)
		}
	}
	if len(snap.Report.Problems()) != 0 {
		t.Errorf("Problems() = %v, want none", snap.Report.Problems())
	}
}

func TestReload_UnmappedSheetGetsUnsetEC(t *testing.T) {
	dir := writeStudyDir(t, map[string][][]string{
		"송도고":  {growthHeader(), {"10.2", "8", "120"}},
		"신규학교": {growthHeader(), {"9.9", "7", "110"}},
	})

	// 신규학교 has growth data but no condition mapping.
	svc := NewService(dir, testConditions())
	snap, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	schools, err := snap.Combined.Strings(ColSchool)
	if err != nil {
		t.Fatal(err)
	}
	ecs, err := snap.Combined.Strings(ColEC)
	if err != nil {
		t.Fatal(err)
	}
	for i, school := range schools {
		switch school {
		case "송도고":
			if ecs[i] != "1" {
				t.Errorf("송도고 EC = %q, want %q", ecs[i], "1")
			}
		case "신규학교":
			if ecs[i] != table.Unset {
				t.Errorf("신규학교 EC = %q, want Unset", ecs[i])
			}
		}
	}
}

func TestReload_MissingEnvFileIsPartial(t *testing.T) {
	dir := writeStudyDir(t, map[string][][]string{
		"송도고": {growthHeader(), {"10.2", "8", "120"}},
		"하늘고": {growthHeader(), {"14.8", "11", "150"}},
	})
	// Remove one environment file after the fact.
	matches, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range matches {
		if norm.NFC.String(filepath.Base(m)) == EnvFileName("하늘고") {
			if err := os.Remove(m); err != nil {
				t.Fatal(err)
			}
		}
	}

	svc := NewService(dir, testConditions())
	snap, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if _, ok := snap.Env["하늘고"]; ok {
		t.Error("Env[하늘고] present, want missing")
	}
	if _, ok := snap.Env["송도고"]; !ok {
		t.Error("Env[송도고] absent, want loaded")
	}
	if len(snap.Report.Problems()) != 1 {
		t.Errorf("Problems() = %v, want exactly one", snap.Report.Problems())
	}
	// Growth data is unaffected by the missing environment file.
	if got := snap.Combined.RowCount(); got != 2 {
		t.Errorf("Combined.RowCount() = %d, want 2", got)
	}
}

func TestReload_MissingDirectoryFails(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "absent"), testConditions())
	if _, err := svc.Reload(context.Background()); err == nil {
		t.Fatal("Reload() expected error for missing data directory")
	}
}

func TestSnapshot_BeforeReload(t *testing.T) {
	svc := NewService(t.TempDir(), testConditions())
	if _, err := svc.Snapshot(); err == nil {
		t.Fatal("Snapshot() expected error before first Reload")
	}
}

func TestReload_ReplacesSnapshotAtomically(t *testing.T) {
	dir := writeStudyDir(t, map[string][][]string{
		"송도고": {growthHeader(), {"10.2", "8", "120"}},
	})
	svc := NewService(dir, testConditions())

	first, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if first.ID == second.ID {
		t.Error("reload reused the previous snapshot ID")
	}
	current, err := svc.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if current.ID != second.ID {
		t.Error("Snapshot() did not return the latest reload")
	}
}

func TestEnvSeries(t *testing.T) {
	dir := writeStudyDir(t, map[string][][]string{
		"송도고": {growthHeader(), {"10.2", "8", "120"}},
		"하늘고": {growthHeader(), {"14.8", "11", "150"}},
	})
	svc := NewService(dir, testConditions())
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	all, err := svc.EnvSeries("")
	if err != nil {
		t.Fatalf("EnvSeries() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(series) = %d, want 2", len(all))
	}
	// Condition order: 송도고 (EC 1.0) first
	if all[0].School != "송도고" {
		t.Errorf("series[0].School = %q, want 송도고", all[0].School)
	}
	if len(all[0].Time) != 2 || len(all[0].Temperature) != 2 {
		t.Errorf("series lengths = %d/%d, want 2/2", len(all[0].Time), len(all[0].Temperature))
	}
	if all[0].Temperature[0] != 21.5 {
		t.Errorf("Temperature[0] = %v, want 21.5", all[0].Temperature[0])
	}

	one, err := svc.EnvSeries("하늘고")
	if err != nil {
		t.Fatalf("EnvSeries(하늘고) error = %v", err)
	}
	if len(one) != 1 || one[0].School != "하늘고" {
		t.Errorf("EnvSeries(하늘고) = %+v, want single 하늘고 series", one)
	}

	if _, err := svc.EnvSeries("없는학교"); err == nil {
		t.Error("EnvSeries(없는학교) expected error")
	}
}

func TestReload_MisnamedGrowthColumnIsParseError(t *testing.T) {
	dir := writeStudyDir(t, map[string][][]string{
		"송도고": {{"무게", ColLeaves, ColLength}, {"10.2", "8", "120"}},
	})
	svc := NewService(dir, testConditions())
	snap, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	o, ok := snap.Report.Outcome(GrowthKey)
	if !ok {
		t.Fatal("report has no growth outcome")
	}
	if o.Status != dataset.StatusParseError {
		t.Fatalf("growth status = %v, want parse_error", o.Status)
	}
	if !strings.Contains(o.Err, ColWeight) {
		t.Errorf("Err = %q, want the missing column named", o.Err)
	}

	// The misnamed workbook is reported, not queried: summaries stay empty
	// instead of failing.
	summary, err := svc.Summary()
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.TotalSamples != 0 {
		t.Errorf("TotalSamples = %d, want 0", summary.TotalSamples)
	}
}

func TestEnvSeries_BadColumnSchoolIsExcluded(t *testing.T) {
	conditions := Conditions{"송도고": 1.0, "하늘고": 2.0, "아라고": 4.0}
	dir := writeStudyDir(t, map[string][][]string{
		"송도고": {growthHeader(), {"10.2", "8", "120"}},
		"하늘고": {growthHeader(), {"14.8", "11", "150"}},
		"아라고": {growthHeader(), {"12.0", "9", "125"}},
	})
	// One logger dropped its ph column.
	name := norm.NFD.String(EnvFileName("아라고"))
	content := "time,temperature,humidity\n09:00,21.5,40.1\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := NewService(dir, conditions)
	snap, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	o, _ := snap.Report.Outcome("아라고")
	if o.Status != dataset.StatusParseError {
		t.Fatalf("아라고 status = %v, want parse_error (err: %s)", o.Status, o.Err)
	}
	if _, ok := snap.Env["아라고"]; ok {
		t.Error("Env[아라고] present, want excluded")
	}

	// The healthy schools still serve their series.
	series, err := svc.EnvSeries("")
	if err != nil {
		t.Fatalf("EnvSeries() error = %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("len(series) = %d, want 2", len(series))
	}
	if series[0].School != "송도고" || series[1].School != "하늘고" {
		t.Errorf("series schools = %s/%s, want 송도고/하늘고", series[0].School, series[1].School)
	}
}

func TestGrowthPoints(t *testing.T) {
	dir := writeStudyDir(t, map[string][][]string{
		"송도고":  {growthHeader(), {"10.2", "8", "120"}, {"11.0", "9", "130"}},
		"하늘고":  {growthHeader(), {"14.8", "11", "150"}},
		"신규학교": {growthHeader(), {"9.9", "7", "110"}},
	})
	svc := NewService(dir, testConditions())
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	points, err := svc.GrowthPoints("")
	if err != nil {
		t.Fatalf("GrowthPoints() error = %v", err)
	}
	if len(points) != 4 {
		t.Fatalf("len(points) = %d, want 4", len(points))
	}
	for _, p := range points {
		if p.School == "신규학교" && p.HasEC {
			t.Error("unmapped school carries a condition value")
		}
		if p.School == "하늘고" && (!p.HasEC || p.EC != 2.0) {
			t.Errorf("하늘고 point EC = %v/%v, want 2.0/true", p.EC, p.HasEC)
		}
	}

	filtered, err := svc.GrowthPoints("송도고")
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 2 {
		t.Errorf("GrowthPoints(송도고) = %d points, want 2", len(filtered))
	}
}

func TestSummary(t *testing.T) {
	dir := writeStudyDir(t, map[string][][]string{
		"송도고": {growthHeader(), {"10.0", "8", "120"}, {"12.0", "9", "130"}},
		"하늘고": {growthHeader(), {"14.0", "11", "150"}, {"16.0", "12", "160"}},
	})
	svc := NewService(dir, testConditions())
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	summary, err := svc.Summary()
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if summary.TotalSamples != 4 {
		t.Errorf("TotalSamples = %d, want 4", summary.TotalSamples)
	}
	if summary.BestSchool != "하늘고" || !summary.BestHasEC || summary.BestEC != 2.0 {
		t.Errorf("Best = %s/%v/%v, want 하늘고/2.0/true",
			summary.BestSchool, summary.BestEC, summary.BestHasEC)
	}

	var songdo *SchoolSummary
	for i := range summary.Schools {
		if summary.Schools[i].School == "송도고" {
			songdo = &summary.Schools[i]
		}
	}
	if songdo == nil {
		t.Fatal("no summary for 송도고")
	}
	if songdo.Weight.Mean != 11.0 {
		t.Errorf("송도고 mean weight = %v, want 11.0", songdo.Weight.Mean)
	}
	if songdo.Weight.Min != 10.0 || songdo.Weight.Max != 12.0 {
		t.Errorf("송도고 weight min/max = %v/%v, want 10/12", songdo.Weight.Min, songdo.Weight.Max)
	}
}

func TestExportCSV(t *testing.T) {
	dir := writeStudyDir(t, map[string][][]string{
		"송도고": {growthHeader(), {"10.2", "8", "120"}},
	})
	svc := NewService(dir, testConditions())
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := svc.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("export has %d lines, want 2 (header + row)", len(lines))
	}
	if !strings.Contains(lines[0], ColSchool) || !strings.Contains(lines[0], ColEC) {
		t.Errorf("header %q lacks derived columns", lines[0])
	}
	if !strings.Contains(lines[1], "송도고") {
		t.Errorf("data row %q lacks school label", lines[1])
	}
}

func TestExportWorkbook(t *testing.T) {
	dir := writeStudyDir(t, map[string][][]string{
		"송도고": {growthHeader(), {"10.2", "8", "120"}},
	})
	svc := NewService(dir, testConditions())
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := svc.ExportWorkbook(&buf); err != nil {
		t.Fatalf("ExportWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("exported workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("exported sheet has %d rows, want 2", len(rows))
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Metric
	}{
		{"empty", nil, Metric{}},
		{"single", []float64{5}, Metric{Mean: 5, Min: 5, Max: 5, Count: 1}},
		{"several", []float64{1, 2, 3}, Metric{Mean: 2, Min: 1, Max: 3, Count: 3}},
	}
	for _, tt := range tests {
		if got := summarize(tt.values); got != tt.want {
			t.Errorf("summarize(%s) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}
