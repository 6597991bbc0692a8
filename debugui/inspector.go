package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/loop"
)

// Inspector renders the debug windows. Frame times are recorded every
// rendered frame, including while the game is paused.
type Inspector struct {
	Visible bool

	historyFrames int
	frameHistory  []float32
	frameIndex    int
	recorded      int

	systems systemTable
}

func NewInspector(historyFrames int) *Inspector {
	return &Inspector{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		systems:       systemTable{sortColumn: columnAvg},
	}
}

// Record adds one frame time to the history ring.
func (in *Inspector) Record(dt time.Duration) {
	in.frameHistory[in.frameIndex] = float32(dt.Seconds() * 1000.0)
	in.frameIndex = (in.frameIndex + 1) % in.historyFrames
	in.recorded = min(in.recorded+1, in.historyFrames)
}

// AverageFrameTime returns the mean over the recorded history.
func (in *Inspector) AverageFrameTime() time.Duration {
	if in.recorded == 0 {
		return 0
	}
	var total float32
	for _, ft := range in.frameHistory {
		total += ft
	}
	ms := total / float32(in.recorded)
	return time.Duration(float64(ms) * float64(time.Millisecond))
}

// Render draws the inspector windows. It must be called between the ImGui
// backend's BeginFrame and EndFrame.
func (in *Inspector) Render(ctrl *game.Controller, status leaderboard.Status) {
	if !in.Visible {
		return
	}
	in.renderSession(ctrl.Session(), status)
	in.renderPerformance(ctrl.Stats())
}

func (in *Inspector) renderSession(s *game.Session, status leaderboard.Status) {
	if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	for _, row := range sessionRows(s) {
		imgui.Text(row[0] + ": " + row[1])
	}

	imgui.Separator()
	imgui.Text("Leaderboard: " + status.Phase.String())
	if status.Message != "" {
		imgui.Text(status.Message)
	}
	if status.Err != nil {
		imgui.Text("Error: " + status.Err.Error())
	}

	if imgui.TreeNodeStr("Standings") {
		for i, e := range status.Standings {
			imgui.BulletText(fmt.Sprintf("%2d. %-20s %8d", i+1, e.Name, e.Score))
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (in *Inspector) renderPerformance(stats *loop.SchedulerStats) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avg := in.AverageFrameTime()
	fps := 0.0
	if avg > 0 {
		fps = float64(time.Second) / float64(avg)
	}
	imgui.Text(fmt.Sprintf("Frames: %d", stats.Frames))
	imgui.Text(fmt.Sprintf("Systems: %d", stats.SystemCount))
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", float64(avg)/float64(time.Millisecond), fps))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &in.frameHistory[0], int32(len(in.frameHistory)))

	if imgui.TreeNodeStr("System Details") {
		in.systems.render(stats.Systems)
		imgui.TreePop()
	}

	imgui.End()
}

// sessionRows lists the session fields shown in the inspector.
func sessionRows(s *game.Session) [][2]string {
	next := s.Next()
	return [][2]string{
		{"Session", s.ID().String()},
		{"State", s.State().String()},
		{"Score", fmt.Sprintf("%d", s.Score())},
		{"High Score", fmt.Sprintf("%d", s.HighScore())},
		{"Level", fmt.Sprintf("%d", s.Level())},
		{"Lines", fmt.Sprintf("%d", s.Lines())},
		{"Drop Interval", s.DropInterval().String()},
		{"Drop Timer", s.DropCounter().String()},
		{"Next Piece", next.Type.String()},
		{"Duration", s.Duration().Round(time.Second).String()},
	}
}
