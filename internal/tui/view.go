package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vaigaworld/vaiga/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateFounding:
		return docStyle.Render(titleStyle.Render("Found your kingdom") + "\n\n" + m.formView())
	case StateNewQuest, StateNewGrievance, StateComment:
		return docStyle.Render(m.formView())
	case StateSignIn:
		return docStyle.Render(m.signInView())
	}

	var b strings.Builder
	b.WriteString(m.tabBarView())
	b.WriteString("\n\n")
	b.WriteString(m.oracleView())
	b.WriteString("\n\n")

	switch m.state {
	case StateQuests:
		b.WriteString(m.questsView())
	case StateExpeditions:
		b.WriteString(m.expeditionsView())
	case StateVault:
		b.WriteString(m.vaultView())
	case StateCouncil:
		b.WriteString(m.councilView())
	case StateStats:
		b.WriteString(m.statsView())
	}

	b.WriteString("\n\n")
	b.WriteString(m.walletView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return docStyle.Render(b.String())
}

func (m Model) formView() string {
	if m.form == nil {
		return ""
	}
	return m.form.View()
}

func (m Model) signInView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("👑 " + m.svc.KingdomName()))
	b.WriteString("\n\n")
	b.WriteString("Who is entering the kingdom?\n\n")

	for i, member := range m.svc.Members() {
		line := fmt.Sprintf("%s (%s)", member.Name, member.Role)
		if i == m.signinCursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(faintStyle.Render("↑/↓ choose · enter sign in · q quit"))
	return b.String()
}

func (m Model) tabBarView() string {
	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		if tabStates[i] == m.state {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = inactiveTabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) oracleView() string {
	if m.analyzing {
		return oracleStyle.Render("🔮 The Oracle is consulting the stars...")
	}
	if m.report == nil {
		return oracleStyle.Render(faintStyle.Render("🔮 Press r to consult the Oracle."))
	}

	rep := m.report
	var b strings.Builder
	fmt.Fprintf(&b, "🔮 %s\n", climateLabels[rep.EmotionalClimate])
	b.WriteString(rep.Summary + "\n")
	fmt.Fprintf(&b, "Hero of the week: %s · Efficiency: %d%%\n", rep.HeroOfTheWeek, rep.EfficiencyScore)
	b.WriteString(faintStyle.Render(rep.EncouragingNudge))
	if rep.RoyalMediation != "" {
		b.WriteString("\n" + dangerStyle.Render("Mediation: ") + rep.RoyalMediation)
	}
	b.WriteString("\n" + faintStyle.Render(rep.SocialInsight))
	return oracleStyle.Render(b.String())
}

func (m Model) questsView() string {
	snap := m.svc.Snapshot()
	if len(snap.Chores) == 0 {
		return faintStyle.Render("No quests posted. Press a to post one.")
	}

	var b strings.Builder
	for i, chore := range snap.Chores {
		mark := "[ ]"
		if chore.Status == models.ChoreStatusDone {
			mark = "[✓]"
		}

		assignee := "Unclaimed"
		if chore.AssignedToID != "" {
			assignee = snap.MemberName(chore.AssignedToID, "Unclaimed")
		}

		line := fmt.Sprintf("%s %s %s · %s · %s",
			mark, categoryIcons[chore.Category], chore.Title,
			goldStyle.Render(fmt.Sprintf("%d ⭐", chore.Points)), assignee)

		switch {
		case i == m.questCursor:
			line = selectedStyle.Render("> " + line)
		case chore.Status == models.ChoreStatusDone:
			line = "  " + doneStyle.Render(line)
		default:
			line = "  " + line
		}
		b.WriteString(line + "\n")
		if i == m.questCursor && chore.Description != "" {
			b.WriteString(faintStyle.Render("    "+chore.Description) + "\n")
		}
	}
	return b.String()
}

func (m Model) expeditionsView() string {
	targets := m.svc.TravelTargets()
	if len(targets) == 0 {
		return faintStyle.Render("No expeditions on the map.")
	}

	var b strings.Builder
	for i, t := range targets {
		line := fmt.Sprintf("🗺️  %s — %s", t.Location, travelLabels[t.Status])
		if i == m.travelCursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + faintStyle.Render("enter advances the plan"))
	return b.String()
}

func (m Model) vaultView() string {
	var b strings.Builder
	for i, r := range models.RewardCatalog() {
		line := fmt.Sprintf("%s %s — %s", r.Icon, r.Title, goldStyle.Render(fmt.Sprintf("%d ⭐", r.Cost)))
		if m.user.Points < r.Cost {
			line += faintStyle.Render(fmt.Sprintf("  (need %d more)", r.Cost-m.user.Points))
		}
		if i == m.vaultCursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + faintStyle.Render("enter redeems the selected reward"))
	return b.String()
}

func (m Model) councilView() string {
	snap := m.svc.Snapshot()
	if len(snap.Grievances) == 0 {
		return faintStyle.Render("The council chamber is quiet. Press a to raise a concern.")
	}

	var b strings.Builder
	for i, g := range snap.Grievances {
		against := "Family Issue"
		if g.AgainstID != "" {
			against = snap.MemberName(g.AgainstID, "Family Issue")
		}

		status := dangerStyle.Render("OPEN")
		if g.IsResolved {
			status = faintStyle.Render("RESOLVED")
		}

		line := fmt.Sprintf("%s %s · by %s re %s · %s",
			severityLabels[g.Severity], g.Title, snap.MemberName(g.FromID, "unknown"), against, status)
		if i == m.councilCursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")

		if i == m.councilCursor {
			if g.Content != "" {
				b.WriteString(faintStyle.Render("    "+g.Content) + "\n")
			}
			for _, c := range g.Comments {
				b.WriteString(faintStyle.Render(fmt.Sprintf("    💬 %s: %s", snap.MemberName(c.FromID, "unknown"), c.Content)) + "\n")
			}
		}
	}
	return b.String()
}

func (m Model) statsView() string {
	members := m.svc.Members()
	chores := m.svc.Chores()

	completed := map[string]int{}
	for _, c := range chores {
		if c.Status == models.ChoreStatusDone && c.CompletedByID != "" {
			completed[c.CompletedByID]++
		}
	}

	ranked := make([]models.FamilyMember, len(members))
	copy(ranked, members)
	for i := 0; i < len(ranked); i++ {
		for j := i + 1; j < len(ranked); j++ {
			if ranked[j].Points > ranked[i].Points {
				ranked[i], ranked[j] = ranked[j], ranked[i]
			}
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Leaderboard") + "\n")
	for i, member := range ranked {
		fmt.Fprintf(&b, "  %d. %s — %s · %d quests complete\n",
			i+1, member.Name, goldStyle.Render(fmt.Sprintf("%d ⭐", member.Points)), completed[member.ID])
	}
	return b.String()
}

func (m Model) walletView() string {
	if m.user.ID == "" {
		return ""
	}
	return fmt.Sprintf("%s the %s · %s",
		m.user.Name, m.user.Role, goldStyle.Render(fmt.Sprintf("%d ⭐ Star Gold", m.user.Points)))
}
