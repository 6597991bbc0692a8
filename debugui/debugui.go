// Package debugui provides a Dear ImGui overlay for inspecting a running
// game: session state, per-system frame timings and the leaderboard flow.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
)

// InputState tracks whether Dear ImGui is consuming mouse or keyboard
// input. Game input should be ignored while it is.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// CurrentInputState reads the capture flags for the current ImGui frame.
func CurrentInputState() InputState {
	io := imgui.CurrentIO()
	return InputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}
}
