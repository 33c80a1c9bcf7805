package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lifequest/internal/engine"
)

type boardModel struct {
	ctx context.Context
	eng *engine.GameEngine

	width  int
	height int

	state  *engine.State
	health map[engine.Attribute]float64

	expanded map[string]bool
	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	state  *engine.State
	health map[engine.Attribute]float64
	err    error
}

type completedMsg struct {
	id  string
	res *engine.CompleteResult
	err error
}

type uncompletedMsg struct {
	id  string
	res *engine.UncompleteResult
	err error
}

func newBoardModel(ctx context.Context, eng *engine.GameEngine) boardModel {
	return boardModel{
		ctx:      ctx,
		eng:      eng,
		expanded: map[string]bool{},
		loading:  true,
		lastLog:  "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		s, err := m.eng.Snapshot()
		if err != nil {
			return loadedMsg{err: err}
		}
		health := map[engine.Attribute]float64{}
		for _, a := range engine.AllAttributes {
			health[a] = m.eng.AttributeHealth(a)
		}
		return loadedMsg{state: s, health: health}
	}
}

func (m boardModel) completeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.eng.CompleteQuest(m.ctx, id)
		return completedMsg{id: id, res: res, err: err}
	}
}

func (m boardModel) uncompleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.eng.UncompleteQuest(m.ctx, id)
		return uncompletedMsg{id: id, res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.state = msg.state
		m.health = msg.health
		// Default-expand roots that have children.
		children := indexChildren(m.state.Quests)
		for _, q := range m.state.Quests {
			if q.ParentID == "" && len(children[q.ID]) > 0 {
				m.expanded[q.ID] = true
			}
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		if msg.res == nil {
			m.lastLog = "Nothing to complete."
			return m, nil
		}
		note := fmt.Sprintf("Completed: +%d XP", msg.res.ExpAwarded)
		if len(msg.res.LevelsGained) > 0 {
			note += fmt.Sprintf(", level %d!", msg.res.LevelsGained[len(msg.res.LevelsGained)-1])
		}
		if len(msg.res.NewAchievements) > 0 {
			note += " 🏆 " + strings.Join(msg.res.NewAchievements, ", ")
		}
		m.lastLog = note
		return m, m.loadCmd()
	case uncompletedMsg:
		if msg.err != nil {
			m.lastLog = "Undo failed: " + msg.err.Error()
			return m, nil
		}
		if msg.res == nil {
			m.lastLog = "Nothing to undo."
			return m, nil
		}
		note := fmt.Sprintf("Undone: -%d XP", msg.res.ExpRevoked)
		if len(msg.res.RevokedAchievements) > 0 {
			note += ", revoked " + strings.Join(msg.res.RevokedAchievements, ", ")
		}
		m.lastLog = note
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			lines := m.questLines()
			if m.selected < len(lines)-1 {
				m.selected++
			}
			return m, nil
		case "enter":
			lines := m.questLines()
			if m.selected < 0 || m.selected >= len(lines) {
				return m, nil
			}
			line := lines[m.selected]
			if line.hasChildren {
				m.expanded[line.id] = !m.expanded[line.id]
			}
			return m, nil
		case "c", " ":
			lines := m.questLines()
			if m.selected < 0 || m.selected >= len(lines) {
				return m, nil
			}
			line := lines[m.selected]
			if line.status != string(engine.QuestActive) {
				m.lastLog = "Quest is not active."
				return m, nil
			}
			m.lastLog = "Completing…"
			return m, m.completeCmd(line.id)
		case "u":
			lines := m.questLines()
			if m.selected < 0 || m.selected >= len(lines) {
				return m, nil
			}
			line := lines[m.selected]
			if line.status != string(engine.QuestCompleted) {
				m.lastLog = "Only a completed quest can be undone."
				return m, nil
			}
			m.lastLog = "Undoing…"
			return m, m.uncompleteCmd(line.id)
		}
	}
	return m, nil
}

type questLine struct {
	id          string
	depth       int
	title       string
	status      string
	progress    int
	hasChildren bool
	expanded    bool
}

func (m boardModel) questLines() []questLine {
	if m.state == nil || len(m.state.Quests) == 0 {
		return nil
	}
	children := indexChildren(m.state.Quests)
	roots := rootIDs(m.state.Quests)

	var out []questLine
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		q := findQuest(m.state.Quests, id)
		if q == nil {
			return
		}
		kids := children[id]
		out = append(out, questLine{
			id:          id,
			depth:       depth,
			title:       q.Title,
			status:      string(q.Status),
			progress:    q.Progress,
			hasChildren: len(kids) > 0,
			expanded:    m.expanded[id],
		})
		if len(kids) == 0 || !m.expanded[id] {
			return
		}
		for _, kid := range kids {
			walk(kid, depth+1)
		}
	}

	for _, id := range roots {
		walk(id, 0)
	}
	if m.selected >= len(out) {
		m.selected = len(out) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	return out
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 28
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.state == nil {
		return "Lifequest — loading…"
	}
	bar := progressBar(m.state.CurrentExp, m.state.MaxExp, 30)
	return fmt.Sprintf("Lifequest | Level %d | XP %d/%d %s | 🪙 %d | streak %d",
		m.state.Level, m.state.CurrentExp, m.state.MaxExp, bar,
		m.state.Coins[engine.CoinUniversal], m.state.CheckInStreak)
}

func (m boardModel) renderSidebar() string {
	if m.state == nil {
		return "Stats\n\nLoading…"
	}
	lines := []string{"Attributes"}
	for _, a := range engine.AllAttributes {
		lines = append(lines, renderAttr(a, m.state.Attributes[a], m.health[a]))
	}
	lines = append(lines, "")
	lines = append(lines, "Coins")
	for _, a := range engine.AllAttributes {
		coin := engine.CoinForAttribute(a)
		lines = append(lines, fmt.Sprintf("- %s: %d", coin, m.state.Coins[coin]))
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- enter: expand/collapse")
	lines = append(lines, "- c/space: complete")
	lines = append(lines, "- u: undo completion")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	var out []string
	out = append(out, "Quest Log")

	lines := m.questLines()
	if len(lines) == 0 {
		out = append(out, "(empty — add quests with `lq add`)")
		return strings.Join(out, "\n")
	}
	for i, ql := range lines {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		indent := strings.Repeat("  ", ql.depth)
		fold := "  "
		if ql.hasChildren {
			if ql.expanded {
				fold = "▾ "
			} else {
				fold = "▸ "
			}
		}
		suffix := fmt.Sprintf("(%s)", ql.status)
		if ql.hasChildren {
			suffix = fmt.Sprintf("(%s, %d%%)", ql.status, ql.progress)
		}
		out = append(out, fmt.Sprintf("%s%s%s%s %s", cursor, indent, fold, ql.title, suffix))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func renderAttr(a engine.Attribute, value, health float64) string {
	bar := progressBar(int(value), 100, 12)
	return fmt.Sprintf("- %s %5.1f %s %3.0f%%", a, value, bar, health)
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	ratio := float64(value) / float64(total)
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

func findQuest(quests []engine.Quest, id string) *engine.Quest {
	for i := range quests {
		if quests[i].ID == id {
			return &quests[i]
		}
	}
	return nil
}

func rootIDs(quests []engine.Quest) []string {
	var roots []string
	for _, q := range quests {
		if q.ParentID == "" {
			roots = append(roots, q.ID)
		}
	}
	return roots
}

func indexChildren(quests []engine.Quest) map[string][]string {
	children := map[string][]string{}
	for _, q := range quests {
		if q.ParentID == "" {
			continue
		}
		children[q.ParentID] = append(children[q.ParentID], q.ID)
	}
	for k := range children {
		sort.Strings(children[k])
	}
	return children
}
