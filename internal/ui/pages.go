// Package ui renders the dashboard pages with gomponents. Charts are drawn
// client-side by Chart.js against the JSON API; everything else is
// server-rendered HTML.
package ui

import (
	"fmt"
	"time"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"polarec/internal/core"
)

// DashboardData is everything the dashboard page needs to render.
type DashboardData struct {
	// Selected is the school filter, empty for the all-schools view.
	Selected   string
	Schools    []string
	Conditions core.Conditions
	Summary    *core.StudySummary
	Problems   []string
	LoadedAt   time.Time
}

// Dashboard renders the full dashboard page.
func Dashboard(d DashboardData) Node {
	return HTML(
		Lang("ko"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text("극지식물 생육에 따른 최적 EC농도 분석")),
			Link(Rel("preconnect"), Href("https://fonts.googleapis.com")),
			Link(Rel("preconnect"), Href("https://fonts.gstatic.com"), Attr("crossorigin", "")),
			Link(Rel("stylesheet"), Href("https://fonts.googleapis.com/css2?family=Noto+Sans+KR&display=swap")),
			Script(Src("https://cdn.jsdelivr.net/npm/chart.js@4.4.7/dist/chart.umd.min.js")),
			StyleEl(Raw(stylesheet)),
		),
		Body(
			Div(Class("layout"),
				sidebar(d),
				Main(Class("content"),
					H1(Text("🌱 극지식물 생육에 따른 최적 EC농도 분석")),
					problemBanner(d.Problems),
					introTabs(),
					metricCards(d),
					chartSection("🌡️ 환경 조건 비교", "온도 · 습도 · pH 시계열",
						Canvas(ID("chart-temperature")),
						Canvas(ID("chart-humidity")),
						Canvas(ID("chart-ph")),
					),
					chartSection("📊 EC 농도별 생육 결과 비교", "학교별 생중량 분포 (최적 EC 2.0 강조)",
						Canvas(ID("chart-weight")),
					),
					chartSection("📈 생육 지표 간 관계", "잎 수 · 지상부 길이 · 생중량",
						Canvas(ID("chart-correlation")),
					),
					downloadSection(),
					Footer(Class("footer"),
						Text(fmt.Sprintf("데이터 기준: %s", d.LoadedAt.Format("2006-01-02 15:04:05"))),
					),
				),
			),
			chartScript(d.Selected),
		),
	)
}

// sidebar renders the school selector. The filter is a plain link per
// school, so the selection survives without any client state.
func sidebar(d DashboardData) Node {
	items := []Node{schoolLink("전체", "/", d.Selected == "")}
	for _, school := range d.Schools {
		label := school
		if ec, ok := d.Conditions.Lookup(school); ok {
			label = fmt.Sprintf("%s (EC %s)", school, core.FormatEC(ec))
		}
		items = append(items, schoolLink(label, "/school/"+school, d.Selected == school))
	}

	return Aside(Class("sidebar"),
		Div(Class("brand"), Strong(Text("극지식물 연구"))),
		P(Class("sidebar-label"), Text("학교 선택")),
		Nav(Class("school-nav"), Group(items)),
	)
}

func schoolLink(label, href string, active bool) Node {
	class := "school-link"
	if active {
		class += " active"
	}
	return A(Href(href), Class(class), Text(label))
}

// problemBanner lists datasets that failed to load. Hidden when everything
// loaded cleanly.
func problemBanner(problems []string) Node {
	if len(problems) == 0 {
		return nil
	}
	items := make([]Node, len(problems))
	for i, p := range problems {
		items[i] = Li(Text(p))
	}
	return Div(Class("banner"),
		Strong(Text("일부 데이터를 불러오지 못했습니다")),
		Ul(Group(items)),
	)
}

// introTabs renders the three study-framing tabs with CSS-only switching.
func introTabs() Node {
	tabs := []struct {
		id    string
		label string
		lines []string
	}{
		{"tab-background", "연구 배경", []string{
			"극지 환경에서는 토양과 수분 조건이 극도로 제한된다",
			"양액 재배 시 EC 농도는 식물 생육을 좌우하는 핵심 요인이다",
			"EC가 너무 낮으면 영양 결핍, 너무 높으면 삼투 스트레스가 발생한다",
		}},
		{"tab-goal", "연구 목적", []string{
			"EC 농도 차이에 따른 극지식물 생육 변화 분석",
			"생중량 · 잎 수 · 길이 지표를 활용한 정량 비교",
			"극지식물에 적합한 최적 EC 농도 도출",
		}},
		{"tab-questions", "핵심 질문", []string{
			"EC 농도가 증가할수록 생육은 항상 좋아질까?",
			"생중량과 잎 수 · 길이는 어떤 관계가 있을까?",
			"극지식물에 가장 효율적인 EC는 얼마일까?",
		}},
	}

	var inputs, labels, panels []Node
	for i, tab := range tabs {
		input := Input(Type("radio"), Name("intro-tab"), ID(tab.id))
		if i == 0 {
			input = Input(Type("radio"), Name("intro-tab"), ID(tab.id), Checked())
		}
		inputs = append(inputs, input)
		labels = append(labels, Label(For(tab.id), Text(tab.label)))

		lines := make([]Node, len(tab.lines))
		for j, line := range tab.lines {
			lines[j] = Li(Text(line))
		}
		panels = append(panels, Div(Class("tab-panel"), ID(tab.id+"-panel"), Ul(Group(lines))))
	}

	return Section(Class("intro-tabs"),
		Group(inputs),
		Div(Class("tab-labels"), Group(labels)),
		Group(panels),
	)
}

// metricCards renders the per-school summary row.
func metricCards(d DashboardData) Node {
	if d.Summary == nil || len(d.Summary.Schools) == 0 {
		return nil
	}

	var cards []Node
	for _, ss := range d.Summary.Schools {
		if d.Selected != "" && ss.School != d.Selected {
			continue
		}
		ecLabel := "조건 없음"
		if ss.HasEC {
			ecLabel = "EC " + core.FormatEC(ss.EC)
		}
		cards = append(cards, Div(Class("card"),
			H3(Text(ss.School)),
			P(Class("card-ec"), Text(ecLabel)),
			P(Text(fmt.Sprintf("평균 생중량 %.2f g", ss.Weight.Mean))),
			P(Text(fmt.Sprintf("평균 잎 수 %.1f 장", ss.Leaves.Mean))),
			P(Text(fmt.Sprintf("평균 길이 %.1f mm", ss.Length.Mean))),
			P(Class("card-samples"), Text(fmt.Sprintf("표본 %d개", ss.Samples))),
		))
	}

	var best Node
	if d.Selected == "" && d.Summary.BestSchool != "" && d.Summary.BestHasEC {
		best = P(Class("best-ec"),
			Text(fmt.Sprintf("평균 생중량 기준 최적 조건: %s (EC %s)",
				d.Summary.BestSchool, core.FormatEC(d.Summary.BestEC))))
	}

	return Section(
		Div(Class("cards"), Group(cards)),
		best,
	)
}

func chartSection(title, subtitle string, canvases ...Node) Node {
	return Section(Class("chart-section"),
		H2(Text(title)),
		P(Class("subtitle"), Text(subtitle)),
		Div(Class("charts"), Group(canvases)),
	)
}

func downloadSection() Node {
	return Section(Class("downloads"),
		H2(Text("⬇️ 분석 데이터 다운로드")),
		A(Href("/api/export"), Class("btn"), Text("Excel (xlsx)")),
		A(Href("/api/export.csv"), Class("btn"), Text("CSV")),
	)
}
