package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hunttrack/pkg/session"
	"hunttrack/pkg/tracker"
)

// listLimit caps the rows shown in the Home loot and skill panels.
const listLimit = 10

// View implements tea.Model.
func (m Model) View() string {
	theme := DefaultTheme()

	var body string
	switch m.tab {
	case SessionsTab:
		body = m.renderSessions(theme)
	case LoadoutsTab:
		body = m.renderLoadouts(theme)
	case MarkupsTab:
		body = m.renderMarkups(theme)
	default:
		body = m.renderHome(theme)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(theme),
		m.renderStatusBar(theme),
		body,
		m.help.View(m.keys),
	)
}

func (m Model) renderTabs(theme Theme) string {
	tabs := []Tab{HomeTab, SessionsTab, LoadoutsTab, MarkupsTab}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(theme.Muted)
		if t == m.tab {
			style = style.Bold(true).Foreground(theme.Primary).Underline(true)
		}
		parts = append(parts, style.Render(t.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderStatusBar shows the session name, run state, elapsed time and the
// latest error, if any.
func (m Model) renderStatusBar(theme Theme) string {
	s := m.app.Session()

	state := lipgloss.NewStyle().Foreground(theme.Warning).Render("stopped")
	if s.Running() {
		state = lipgloss.NewStyle().Foreground(theme.Success).Render("running")
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(s.Name),
		" | ", state,
		" | ", s.PrettyElapsed(),
		" | loadout: ", lipgloss.NewStyle().Foreground(theme.Secondary).Render(s.Loadout.Name),
	)

	if err := firstErr(m.err, m.tailErr); err != nil {
		bar += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render("error: "+err.Error())
	}
	return bar
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (m Model) renderHome(theme Theme) string {
	s := m.app.Session()
	sum := m.app.Tracker.Summarize()

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.panel(38).Render(renderSummary(theme, s, sum)),
		theme.panel(34).Render(renderCombat(theme, s.Stats, sum)),
		theme.panel(30).Render(renderTarget(theme, s.Stats, sum)),
	)
	middle := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.panel(52).Render(renderLoot(theme, s, m.app.Tracker.Markups)),
		theme.panel(52).Render(renderSkills(theme, s)),
	)
	activity := theme.panel(106).Render(m.renderActivity(theme))

	return lipgloss.JoinVertical(lipgloss.Left, top, middle, activity)
}

func renderSummary(theme Theme, s *session.Session, sum tracker.Summary) string {
	st := s.Stats
	lines := []string{
		theme.title().Render("Summary"),
		fmt.Sprintf("Cost:       %s PED", sum.TotalCost.StringFixed(4)),
		fmt.Sprintf("Cost/shot:  %s PED", tracker.CostPerShot(s.Loadout.CostParams()).StringFixed(6)),
		fmt.Sprintf("TT loot:    %s PED", st.TTProfit.StringFixed(4)),
		"TT profit:  " + theme.profit(sum.TTProfit).Render(sum.TTProfit.StringFixed(4)) +
			fmt.Sprintf(" (%s%%)", sum.TTReturn.StringFixed(2)),
		fmt.Sprintf("MU loot:    %s PED", sum.MUValue.StringFixed(4)),
		"MU profit:  " + theme.profit(sum.MUProfit).Render(sum.MUProfit.StringFixed(4)) +
			fmt.Sprintf(" (%s%%)", sum.MUReturn.StringFixed(2)),
		fmt.Sprintf("Value/h:    %s PED", sum.ValuePerHour.StringFixed(2)),
		fmt.Sprintf("Cost/h:     %s PED", sum.CostPerHour.StringFixed(2)),
		fmt.Sprintf("Globals:    %d (%s)", st.GlobalCount, st.TotalGlobalGain.StringFixed(2)),
		fmt.Sprintf("HOFs:       %d (%s)", st.HOFCount, st.TotalHOFGain.StringFixed(2)),
		fmt.Sprintf("Skill exp:  %s", st.TotalExpGain.StringFixed(4)),
	}
	return strings.Join(lines, "\n")
}

func renderCombat(theme Theme, st session.Stats, sum tracker.Summary) string {
	lines := []string{
		theme.title().Render("Player"),
		fmt.Sprintf("Attacks:    %d", st.AttackCount),
		fmt.Sprintf("Damage:     %s", st.TotalDamage.StringFixed(2)),
		fmt.Sprintf("Crits:      %d (%s%%)", st.CritCount, sum.CritRate.StringFixed(2)),
		fmt.Sprintf("Crit dmg:   %s", st.TotalCritDamage.StringFixed(2)),
		fmt.Sprintf("Misses:     %d (%s%%)", st.AttackMissCount, sum.MissRate.StringFixed(2)),
		fmt.Sprintf("Healed:     %s", st.TotalHeal.StringFixed(2)),
		fmt.Sprintf("Deflects:   %d (%s%%)", st.DeflectCount, sum.DeflectRate.StringFixed(2)),
		fmt.Sprintf("Evades:     %d", st.EvadeCount),
		fmt.Sprintf("Deaths:     %d", st.DeathCount),
	}
	return strings.Join(lines, "\n")
}

func renderTarget(theme Theme, st session.Stats, sum tracker.Summary) string {
	lines := []string{
		theme.title().Render("Target"),
		fmt.Sprintf("Attacks:    %d", st.TargetAttackCount),
		fmt.Sprintf("Damage:     %s", st.TargetTotalDamage.StringFixed(2)),
		fmt.Sprintf("Miss rate:  %s%%", sum.TargetMissPct.StringFixed(2)),
		fmt.Sprintf("Dodges:     %d", st.TargetDodgeCount),
		fmt.Sprintf("Evades:     %d", st.TargetEvadeCount),
		fmt.Sprintf("Jams:       %d", st.TargetJamCount),
	}
	return strings.Join(lines, "\n")
}

func renderLoot(theme Theme, s *session.Session, markups session.Markups) string {
	lines := []string{theme.title().Render("Loot")}
	loot := s.LootByValue()
	if len(loot) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Muted).Render("nothing yet"))
	}
	for i, l := range loot {
		if i == listLimit {
			lines = append(lines, fmt.Sprintf("… %d more", len(loot)-listLimit))
			break
		}
		mu := l.TTValue.Mul(markups.Value(l.Name))
		lines = append(lines, fmt.Sprintf("%-24s x%-5d %9s %9s", truncate(l.Name, 24), l.Count,
			l.TTValue.StringFixed(4), mu.StringFixed(4)))
	}
	return strings.Join(lines, "\n")
}

func renderSkills(theme Theme, s *session.Session) string {
	lines := []string{theme.title().Render("Skills")}
	skills := s.SkillsByExp()
	if len(skills) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Muted).Render("nothing yet"))
	}
	for i, sk := range skills {
		if i == listLimit {
			lines = append(lines, fmt.Sprintf("… %d more", len(skills)-listLimit))
			break
		}
		lines = append(lines, fmt.Sprintf("%-32s %12s", truncate(sk.Name, 32), sk.ExpGain.StringFixed(4)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderActivity(theme Theme) string {
	lines := []string{theme.title().Render("Activity")}
	entries := m.app.Tracker.Activity.Entries()
	if len(entries) > m.activity {
		entries = entries[:m.activity]
	}
	for _, e := range entries {
		lines = append(lines, truncate(e, 100))
	}
	return strings.Join(lines, "\n")
}

// cursorRow renders one selectable list row.
func cursorRow(theme Theme, selected, active bool, text string) string {
	prefix := "  "
	if selected {
		prefix = "> "
	}
	style := lipgloss.NewStyle()
	if active {
		style = style.Foreground(theme.Success)
	}
	if selected {
		style = style.Bold(true)
	}
	return style.Render(prefix + text)
}

func (m Model) renderSessions(theme Theme) string {
	cur := m.app.Session()
	lines := []string{theme.title().Render("Sessions") + "  (n new, enter select)"}
	if len(m.sessions) == 0 {
		lines = append(lines, "No sessions found.")
	}
	for i, s := range m.sessions {
		text := fmt.Sprintf("%-32s %s  %s", s.Name, session.FormatElapsed(s.Elapsed), s.Loadout)
		lines = append(lines, cursorRow(theme, i == m.sessionCursor, s.ID == cur.ID, text))
	}
	return theme.panel(0).Render(strings.Join(lines, "\n"))
}

func (m Model) renderLoadouts(theme Theme) string {
	cur := m.app.Session().Loadout
	lines := []string{theme.title().Render("Loadouts") + "  (n new, enter equip)"}
	if len(m.loadouts) == 0 {
		lines = append(lines, "No loadouts found.")
	}
	for i, l := range m.loadouts {
		text := fmt.Sprintf("%-24s %-20s decay %-8s burn %-5d %s/shot",
			l.Name, truncate(l.Weapon, 20), l.Decay.String(), l.Burn,
			tracker.CostPerShot(l.CostParams()).StringFixed(6))
		lines = append(lines, cursorRow(theme, i == m.loadoutCursor, l.Key() == cur.Key(), text))
	}
	return theme.panel(0).Render(strings.Join(lines, "\n"))
}

func (m Model) renderMarkups(theme Theme) string {
	lines := []string{theme.title().Render("Markups") + "  (enter edit, esc cancel)"}
	markups := m.app.Tracker.Markups.Sorted()
	if len(markups) == 0 {
		lines = append(lines, "No markups yet. Items are added as they are looted.")
	}
	for i, mu := range markups {
		text := fmt.Sprintf("%-36s %s", truncate(mu.Name, 36), mu.Value.StringFixed(2))
		if m.editing && i == m.markupCursor {
			text = fmt.Sprintf("%-36s %s", truncate(mu.Name, 36), m.input.View())
		}
		lines = append(lines, cursorRow(theme, i == m.markupCursor, false, text))
	}
	return theme.panel(0).Render(strings.Join(lines, "\n"))
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
