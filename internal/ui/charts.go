package ui

import (
	"encoding/json"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// chartScript emits the client-side chart bootstrap. The selected school is
// injected as a JSON literal; the data itself comes from the JSON API so the
// charts and any external consumer see the same numbers.
func chartScript(selected string) Node {
	school, _ := json.Marshal(selected)
	return Script(Raw(`
(function () {
  var school = ` + string(school) + `;
  var qs = school ? "?school=" + encodeURIComponent(school) : "";
  var palette = ["#2680c2", "#e8590c", "#2f9e44", "#9c36b5", "#e03131", "#1098ad"];

  function lineChart(id, label, series, pick) {
    var el = document.getElementById(id);
    if (!el) return;
    new Chart(el, {
      type: "line",
      data: {
        labels: series.length ? series[0].time : [],
        datasets: series.map(function (s, i) {
          return {
            label: s.school + " " + label,
            data: pick(s),
            borderColor: palette[i % palette.length],
            backgroundColor: palette[i % palette.length],
            pointRadius: 0,
            tension: 0.2
          };
        })
      },
      options: { responsive: true, plugins: { title: { display: true, text: label } } }
    });
  }

  fetch("/api/env-series" + qs)
    .then(function (r) { return r.json(); })
    .then(function (body) {
      var series = body.series || [];
      lineChart("chart-temperature", "온도", series, function (s) { return s.temperature; });
      lineChart("chart-humidity", "습도", series, function (s) { return s.humidity; });
      lineChart("chart-ph", "pH", series, function (s) { return s.ph; });
    });

  fetch("/api/growth" + qs)
    .then(function (r) { return r.json(); })
    .then(function (body) {
      var points = body.points || [];
      var schools = [];
      points.forEach(function (p) {
        if (schools.indexOf(p.school) < 0) schools.push(p.school);
      });

      var weightEl = document.getElementById("chart-weight");
      if (weightEl) {
        new Chart(weightEl, {
          type: "scatter",
          data: {
            datasets: schools.map(function (sc, i) {
              return {
                label: sc,
                data: points.filter(function (p) { return p.school === sc; })
                  .map(function (p) { return { x: p.has_ec ? p.ec : null, y: p.weight }; })
                  .filter(function (p) { return p.x !== null; }),
                backgroundColor: palette[i % palette.length]
              };
            })
          },
          options: {
            responsive: true,
            plugins: {
              title: { display: true, text: "EC 농도별 생중량 분포 (점선: 최적 EC 2.0)" }
            },
            scales: {
              x: { title: { display: true, text: "EC 농도" } },
              y: { title: { display: true, text: "생중량(g)" } }
            }
          },
          plugins: [{
            id: "optimalEC",
            afterDraw: function (chart) {
              var x = chart.scales.x.getPixelForValue(2.0);
              if (!isFinite(x)) return;
              var ctx = chart.ctx;
              ctx.save();
              ctx.strokeStyle = "#e03131";
              ctx.setLineDash([6, 4]);
              ctx.beginPath();
              ctx.moveTo(x, chart.chartArea.top);
              ctx.lineTo(x, chart.chartArea.bottom);
              ctx.stroke();
              ctx.restore();
            }
          }]
        });
      }

      var corrEl = document.getElementById("chart-correlation");
      if (corrEl) {
        new Chart(corrEl, {
          type: "bubble",
          data: {
            datasets: schools.map(function (sc, i) {
              return {
                label: sc,
                data: points.filter(function (p) { return p.school === sc; })
                  .map(function (p) { return { x: p.leaves, y: p.weight, r: Math.max(2, p.length / 10) }; }),
                backgroundColor: palette[i % palette.length]
              };
            })
          },
          options: {
            responsive: true,
            plugins: { title: { display: true, text: "잎 수 · 길이 · 생중량 관계" } },
            scales: {
              x: { title: { display: true, text: "잎 수(장)" } },
              y: { title: { display: true, text: "생중량(g)" } }
            }
          }
        });
      }
    });
})();
`))
}
