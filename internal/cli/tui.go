package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/gandergraph/gander/pkg/dispatch"
	"github.com/gandergraph/gander/pkg/engine"
	"github.com/gandergraph/gander/pkg/graph"
)

const boardBarWidth = 20

// =============================================================================
// BoardModel - Live progress for concurrent tasks
// =============================================================================

// progressMsg reports a progress update for one task row.
type progressMsg struct {
	index int
	value float64
}

// settledMsg reports that one task row reached a terminal state.
type settledMsg struct {
	index int
	state dispatch.State
}

// boardRow is one task line on the progress board.
type boardRow struct {
	name     string
	progress float64
	state    dispatch.State
}

// boardModel is the bubbletea model for the concurrent task board.
// One row per task; the program quits once every row settles.
type boardModel struct {
	rows    []boardRow
	settled int
	quit    bool
}

// newBoardModel creates a board with one pending row per task name.
func newBoardModel(names []string) boardModel {
	rows := make([]boardRow, len(names))
	for i, name := range names {
		rows[i] = boardRow{name: name, state: dispatch.StatePending}
	}
	return boardModel{rows: rows}
}

func (m boardModel) Init() tea.Cmd {
	return nil
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		}
	case progressMsg:
		r := &m.rows[msg.index]
		if msg.value > r.progress {
			r.progress = msg.value
		}
		if r.state == dispatch.StatePending {
			r.state = dispatch.StateRunning
		}
	case settledMsg:
		r := &m.rows[msg.index]
		r.state = msg.state
		if msg.state == dispatch.StateCompleted {
			r.progress = 1
		}
		m.settled++
		if m.settled == len(m.rows) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m boardModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Computing statistics"))
	b.WriteString("\n\n")

	for _, r := range m.rows {
		b.WriteString(renderBoardRow(r))
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	status := fmt.Sprintf("  %d/%d settled", m.settled, len(m.rows))
	if m.settled == len(m.rows) {
		b.WriteString(StyleSuccess.Render(status))
	} else {
		b.WriteString(StyleDim.Render(status + "  ·  q to abort"))
	}
	b.WriteString("\n")

	return b.String()
}

// renderBoardRow renders one task line: state icon, name, bar,
// percentage.
func renderBoardRow(r boardRow) string {
	var icon string
	switch r.state {
	case dispatch.StateCompleted:
		icon = styleIconSuccess.Render(iconSuccess)
	case dispatch.StateFailed, dispatch.StateTimedOut:
		icon = styleIconError.Render(iconError)
	case dispatch.StateCancelled:
		icon = styleIconWarning.Render(iconWarning)
	case dispatch.StateRunning:
		icon = styleIconSpinner.Render(iconInfo)
	default:
		icon = StyleDim.Render("·")
	}
	return fmt.Sprintf("  %s %-22s %s %3.0f%%", icon, r.name, renderProgressBar(r.progress), r.progress*100)
}

// renderProgressBar renders a fixed-width fill bar.
func renderProgressBar(fraction float64) string {
	filled := int(fraction*boardBarWidth + 0.5)
	if filled > boardBarWidth {
		filled = boardBarWidth
	}
	return StyleHighlight.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", boardBarWidth-filled))
}

// =============================================================================
// Board Runner
// =============================================================================

// runStatBoard runs one task per name concurrently. On a terminal the
// tasks render as a live board; otherwise they run without one and
// log instead. Individual failures are reported and skipped; the
// returned map holds the tasks that completed.
func (c *CLI) runStatBoard(ctx context.Context, eng *engine.Engine, data graph.Data, names []string, refresh bool) (map[string]dispatch.Result, error) {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return c.runStatsPlain(ctx, eng, data, names, refresh)
	}

	p := tea.NewProgram(newBoardModel(names), tea.WithOutput(os.Stderr), tea.WithContext(ctx))

	var (
		mu      sync.Mutex
		results = make(map[string]dispatch.Result, len(names))
		failed  []string
	)

	// Submissions run alongside the board so progress sends always
	// have a running event loop to land in.
	go func() {
		for i, name := range names {
			h, _, err := eng.SubmitWithCacheInfo(ctx, engine.Request{
				Module:   "stats",
				Function: name,
				Graph:    data,
				Refresh:  refresh,
				OnProgress: func(v float64) {
					p.Send(progressMsg{index: i, value: v})
				},
			})
			if err != nil {
				mu.Lock()
				failed = append(failed, fmt.Sprintf("%s: %v", name, err))
				mu.Unlock()
				p.Send(settledMsg{index: i, state: dispatch.StateFailed})
				continue
			}
			go func(i int, name string, h *dispatch.Handle) {
				<-h.Done()
				res, err := h.Result()
				mu.Lock()
				if err != nil {
					failed = append(failed, fmt.Sprintf("%s: %v", name, err))
				} else {
					results[name] = res
				}
				mu.Unlock()
				p.Send(settledMsg{index: i, state: h.State()})
			}(i, name, h)
		}
	}()

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("progress board: %w", err)
	}
	board := final.(boardModel)
	if board.quit && board.settled < len(board.rows) {
		return nil, fmt.Errorf("aborted with %d tasks still running", len(board.rows)-board.settled)
	}

	mu.Lock()
	defer mu.Unlock()
	for _, f := range failed {
		printWarning("%s", f)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("every statistic failed")
	}
	return results, nil
}

// runStatsPlain is the board-less fallback for pipes and CI: submit
// everything, await everything, log as results land.
func (c *CLI) runStatsPlain(ctx context.Context, eng *engine.Engine, data graph.Data, names []string, refresh bool) (map[string]dispatch.Result, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	handles := make(map[string]*dispatch.Handle, len(names))
	for _, name := range names {
		h, _, err := eng.SubmitWithCacheInfo(ctx, engine.Request{
			Module:   "stats",
			Function: name,
			Graph:    data,
			Refresh:  refresh,
		})
		if err != nil {
			logger.Warn("statistic rejected", "function", name, "error", err)
			continue
		}
		handles[name] = h
	}

	results := make(map[string]dispatch.Result, len(handles))
	for name, h := range handles {
		res, err := h.Await(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("statistic failed", "function", name, "error", err)
			continue
		}
		logger.Debug("statistic complete", "function", name)
		results[name] = res
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("every statistic failed")
	}
	prog.done(fmt.Sprintf("Computed %d of %d statistics", len(results), len(names)))
	return results, nil
}
