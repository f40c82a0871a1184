package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/vaigaworld/vaiga/internal/kingdom"
	"github.com/vaigaworld/vaiga/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case reportMsg:
		m.analyzing = false
		if msg.report != nil {
			m.report = msg.report
		}
		return m, nil
	}

	switch m.state {
	case StateFounding, StateNewQuest, StateNewGrievance, StateComment:
		return m.updateForm(msg)
	case StateSignIn:
		return m.updateSignIn(msg)
	default:
		return m.updateDashboard(msg)
	}
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.state = m.returnState()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.applyForm()
	case huh.StateAborted:
		m.form = nil
		m.state = m.returnState()
		return m, nil
	}

	return m, cmd
}

// returnState is where an aborted or completed form drops the user.
func (m Model) returnState() SessionState {
	switch m.state {
	case StateFounding:
		return StateSignIn
	case StateNewQuest:
		return StateQuests
	case StateNewGrievance, StateComment:
		return StateCouncil
	}
	return StateQuests
}

func (m Model) applyForm() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateFounding:
		drafts := parseMemberLines(m.foundForm.Members)
		// Validation already required a name and at least one member, so
		// a failure here means the household existed all along.
		_ = m.svc.FoundHousehold(m.foundForm.KingdomName, drafts, false)
		m.form = nil
		m.foundForm = nil
		m.state = StateSignIn
		return m, nil

	case StateNewQuest:
		points, _ := strconv.Atoi(m.questForm.Points)
		m.svc.CreateQuest(kingdom.QuestDraft{
			Title:        m.questForm.Title,
			Description:  m.questForm.Description,
			Points:       points,
			Category:     m.questForm.Category,
			AssignedToID: m.questForm.AssignToID,
		}, m.user.ID)
		m.form = nil
		m.questForm = nil
		m.state = StateQuests
		m.questCursor = 0
		return m, nil

	case StateNewGrievance:
		m.svc.FileGrievance(kingdom.GrievanceDraft{
			Title:     m.grievanceForm.Title,
			Content:   m.grievanceForm.Content,
			Severity:  m.grievanceForm.Severity,
			AgainstID: m.grievanceForm.AgainstID,
		}, m.user.ID)
		m.form = nil
		m.grievanceForm = nil
		m.state = StateCouncil
		m.councilCursor = 0
		return m, nil

	case StateComment:
		grievances := m.svc.Grievances()
		if m.councilCursor < len(grievances) {
			m.svc.AddGrievanceComment(grievances[m.councilCursor].ID, m.commentForm.Text, m.user.ID)
		}
		m.form = nil
		m.commentForm = nil
		m.state = StateCouncil
		return m, nil
	}

	m.form = nil
	return m, nil
}

func (m Model) updateSignIn(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	members := m.svc.Members()

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.signinCursor > 0 {
			m.signinCursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.signinCursor < len(members)-1 {
			m.signinCursor++
		}
	case key.Matches(keyMsg, m.keys.Enter):
		if m.signinCursor < len(members) {
			m.user = members[m.signinCursor]
			m.state = StateQuests
			m.analyzing = true
			// The oracle consults on every login
			return m, m.fetchReport()
		}
	}

	return m, nil
}

func (m Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(keyMsg, m.keys.Logout):
		m.user = models.FamilyMember{}
		m.report = nil
		m.analyzing = false
		m.state = StateSignIn
		m.signinCursor = 0

	case key.Matches(keyMsg, m.keys.Tab):
		if i := m.tabIndex(); i >= 0 {
			m.state = tabStates[(i+1)%len(tabStates)]
		}

	case key.Matches(keyMsg, m.keys.ShiftTab):
		if i := m.tabIndex(); i >= 0 {
			m.state = tabStates[(i-1+len(tabStates))%len(tabStates)]
		}

	case key.Matches(keyMsg, m.keys.Refresh):
		if !m.analyzing {
			m.analyzing = true
			return m, m.fetchReport()
		}

	case key.Matches(keyMsg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(keyMsg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(keyMsg, m.keys.Enter):
		return m.handleSelect()

	case key.Matches(keyMsg, m.keys.Add):
		switch m.state {
		case StateQuests:
			m.questForm = &QuestFormModel{Points: "50", Category: models.CategoryOther}
			m.form = newQuestForm(m.questForm, m.svc.Members())
			m.state = StateNewQuest
			return m, m.form.Init()
		case StateCouncil:
			m.grievanceForm = &GrievanceFormModel{Severity: models.SeverityMild}
			m.form = newGrievanceForm(m.grievanceForm, m.svc.Members(), m.user.ID)
			m.state = StateNewGrievance
			return m, m.form.Init()
		}

	case key.Matches(keyMsg, m.keys.Comment):
		if m.state == StateCouncil {
			grievances := m.svc.Grievances()
			if m.councilCursor < len(grievances) && !grievances[m.councilCursor].IsResolved {
				m.commentForm = &CommentFormModel{}
				m.form = newCommentForm(m.commentForm)
				m.state = StateComment
				return m, m.form.Init()
			}
		}

	case key.Matches(keyMsg, m.keys.Resolve):
		if m.state == StateCouncil {
			grievances := m.svc.Grievances()
			if m.councilCursor < len(grievances) {
				m.svc.ResolveGrievance(grievances[m.councilCursor].ID)
			}
		}
	}

	return m, nil
}

func (m *Model) moveCursor(delta int) {
	move := func(cursor *int, max int) {
		next := *cursor + delta
		if next >= 0 && next < max {
			*cursor = next
		}
	}

	switch m.state {
	case StateQuests:
		move(&m.questCursor, len(m.svc.Chores()))
	case StateExpeditions:
		move(&m.travelCursor, len(m.svc.TravelTargets()))
	case StateVault:
		move(&m.vaultCursor, len(models.RewardCatalog()))
	case StateCouncil:
		move(&m.councilCursor, len(m.svc.Grievances()))
	}
}

func (m Model) handleSelect() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateQuests:
		chores := m.svc.Chores()
		if m.questCursor < len(chores) {
			m.svc.ToggleChore(chores[m.questCursor].ID, m.user.ID)
			m.syncUser()
		}

	case StateExpeditions:
		targets := m.svc.TravelTargets()
		if m.travelCursor < len(targets) {
			m.svc.CycleTravelStatus(targets[m.travelCursor].ID)
		}

	case StateVault:
		rewards := models.RewardCatalog()
		if m.vaultCursor < len(rewards) {
			m.svc.RedeemReward(rewards[m.vaultCursor], m.user.ID)
			m.syncUser()
		}
	}

	return m, nil
}
