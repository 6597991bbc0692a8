package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/loop"
)

type Report struct {
	// Configuration
	Duration   time.Duration
	FrameStep  time.Duration
	Seed       uint64
	Randomizer string

	// Results
	TotalFrames    int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Systems        []loop.SystemStats
	Games          int
	TotalLines     int
	TotalScore     int
	MaxLevel       int
	Best           game.Result
	SubmittedRank  int
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// AddGame folds a finished game into the totals.
func (r *Report) AddGame(result game.Result) {
	r.Games++
	r.TotalLines += result.Lines
	r.TotalScore += result.Score
	r.MaxLevel = max(r.MaxLevel, result.Level)
	if result.Score > r.Best.Score {
		r.Best = result
	}
}

func (r *Report) AverageScore() int {
	if r.Games == 0 {
		return 0
	}
	return r.TotalScore / r.Games
}

// Stats keeps running totals so a run of any length uses constant memory.
type Stats struct {
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
	Count int64
	total time.Duration
}

func (s *Stats) Add(sample time.Duration) {
	if s.Count == 0 || sample < s.Min {
		s.Min = sample
	}
	if sample > s.Max {
		s.Max = sample
	}
	s.total += sample
	s.Count++
}

func (s *Stats) Finalize() {
	if s.Count == 0 {
		return
	}
	s.Avg = s.total / time.Duration(s.Count)
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Blockfall Soak Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Simulated Frame Step:** {{.FrameStep}}
- **Seed:** {{.Seed}}
- **Randomizer:** {{.Randomizer}}

## Games
- **Games Finished:** {{.Games}}
- **Lines Cleared:** {{.TotalLines}}
- **Average Score:** {{.AverageScore}}
- **Best Score:** {{.Best.Score}} (level {{.Best.Level}}, {{.Best.Lines}} lines, {{.Best.Duration}} simulated)
- **Highest Level:** {{.MaxLevel}}
{{- if .SubmittedRank}}
- **Submitted Rank:** {{.SubmittedRank}}
{{- end}}

## Performance Results
- **Total Frames:** {{.TotalFrames}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Systems
{{range .Systems}}- **{{.Name}}:** {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
