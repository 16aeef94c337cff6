package ui

// stylesheet is inlined into the page head; the dashboard serves no separate
// static assets.
const stylesheet = `
html, body { margin: 0; font-family: 'Noto Sans KR', 'Malgun Gothic', sans-serif; color: #1f2933; background: #f7f9fb; }
.layout { display: flex; min-height: 100vh; }
.sidebar { width: 220px; padding: 1.25rem 1rem; background: #102a43; color: #f0f4f8; }
.sidebar .brand { font-size: 1.1rem; }
.sidebar-label { margin-top: 1.5rem; font-size: 0.8rem; color: #9fb3c8; }
.school-nav { display: flex; flex-direction: column; gap: 0.25rem; }
.school-link { padding: 0.4rem 0.6rem; border-radius: 6px; color: #d9e2ec; text-decoration: none; }
.school-link:hover { background: #243b53; }
.school-link.active { background: #2680c2; color: #fff; }
.content { flex: 1; padding: 1.5rem 2rem; max-width: 1100px; }
.banner { background: #fff3cd; border: 1px solid #f0c36d; border-radius: 8px; padding: 0.75rem 1rem; margin: 1rem 0; }
.banner ul { margin: 0.5rem 0 0; }
.intro-tabs { margin: 1.5rem 0; background: #fff; border: 1px solid #d9e2ec; border-radius: 8px; padding: 1rem; }
.intro-tabs input[type="radio"] { display: none; }
.tab-labels { display: flex; gap: 0.5rem; border-bottom: 1px solid #d9e2ec; padding-bottom: 0.5rem; }
.tab-labels label { padding: 0.35rem 0.9rem; border-radius: 6px 6px 0 0; cursor: pointer; color: #486581; }
.tab-panel { display: none; padding-top: 0.5rem; }
#tab-background:checked ~ .tab-labels label[for="tab-background"],
#tab-goal:checked ~ .tab-labels label[for="tab-goal"],
#tab-questions:checked ~ .tab-labels label[for="tab-questions"] { background: #2680c2; color: #fff; }
#tab-background:checked ~ #tab-background-panel,
#tab-goal:checked ~ #tab-goal-panel,
#tab-questions:checked ~ #tab-questions-panel { display: block; }
.cards { display: flex; flex-wrap: wrap; gap: 1rem; margin: 1rem 0; }
.card { flex: 1 1 200px; background: #fff; border: 1px solid #d9e2ec; border-radius: 8px; padding: 1rem; }
.card h3 { margin: 0 0 0.25rem; }
.card p { margin: 0.15rem 0; font-size: 0.9rem; }
.card-ec { color: #2680c2; font-weight: 600; }
.card-samples { color: #829ab1; font-size: 0.8rem; }
.best-ec { background: #e3f8ff; border-left: 4px solid #2680c2; padding: 0.6rem 1rem; border-radius: 4px; }
.chart-section { margin: 2rem 0; }
.chart-section .subtitle { color: #627d98; margin-top: -0.5rem; }
.charts { background: #fff; border: 1px solid #d9e2ec; border-radius: 8px; padding: 1rem; }
.charts canvas { max-height: 320px; margin-bottom: 1rem; }
.downloads .btn { display: inline-block; margin-right: 0.75rem; padding: 0.5rem 1.2rem; background: #2680c2; color: #fff; border-radius: 6px; text-decoration: none; }
.downloads .btn:hover { background: #186faf; }
.footer { margin-top: 2rem; color: #829ab1; font-size: 0.8rem; }
`
