package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/loop"
)

const (
	columnName = iota
	columnCount
	columnAvg
	columnMax
	columnLast
)

// systemTable is a sortable view of per-system timings.
type systemTable struct {
	sortColumn    int
	sortAscending bool
}

func (st *systemTable) render(systems []loop.SystemStats) {
	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable
	if !imgui.BeginTableV("SystemStatsTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		return
	}

	imgui.TableSetupColumn("System")
	imgui.TableSetupColumn("Runs")
	imgui.TableSetupColumn("Avg")
	imgui.TableSetupColumn("Max")
	imgui.TableSetupColumn("Last")
	imgui.TableHeadersRow()

	sortSpecs := imgui.TableGetSortSpecs()
	if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
		spec := sortSpecs.Specs()
		st.sortColumn = int(spec.ColumnIndex())
		st.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
		sortSpecs.SetSpecsDirty(false)
	}

	for _, s := range sortSystems(systems, st.sortColumn, st.sortAscending) {
		imgui.TableNextRow()
		imgui.TableNextColumn()
		imgui.Text(s.Name)
		imgui.TableNextColumn()
		imgui.Text(fmt.Sprintf("%d", s.ExecutionCount))
		imgui.TableNextColumn()
		imgui.Text(s.AvgDuration.String())
		imgui.TableNextColumn()
		imgui.Text(s.MaxDuration.String())
		imgui.TableNextColumn()
		imgui.Text(s.LastDuration.String())
	}

	imgui.EndTable()
}

// sortSystems returns a sorted copy of systems.
func sortSystems(systems []loop.SystemStats, column int, ascending bool) []loop.SystemStats {
	sorted := slices.Clone(systems)
	slices.SortStableFunc(sorted, func(a, b loop.SystemStats) int {
		var c int
		switch column {
		case columnName:
			c = strings.Compare(a.Name, b.Name)
		case columnCount:
			c = cmp.Compare(a.ExecutionCount, b.ExecutionCount)
		case columnAvg:
			c = cmp.Compare(a.AvgDuration, b.AvgDuration)
		case columnMax:
			c = cmp.Compare(a.MaxDuration, b.MaxDuration)
		case columnLast:
			c = cmp.Compare(a.LastDuration, b.LastDuration)
		}
		if !ascending {
			c = -c
		}
		return c
	})
	return sorted
}
