package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/vaigaworld/vaiga/internal/kingdom"
	"github.com/vaigaworld/vaiga/internal/models"
)

type SessionState int

const (
	StateSignIn SessionState = iota
	StateFounding
	StateQuests
	StateExpeditions
	StateVault
	StateCouncil
	StateStats
	StateNewQuest
	StateNewGrievance
	StateComment
)

// tab positions for the dashboard states, in display order
var tabStates = []SessionState{StateQuests, StateExpeditions, StateVault, StateCouncil, StateStats}
var tabTitles = []string{"Quests", "Expeditions", "Vault", "Council", "Stats"}

type QuestFormModel struct {
	Title       string
	Description string
	Points      string
	Category    models.ChoreCategory
	AssignToID  string
}

type GrievanceFormModel struct {
	Title     string
	Content   string
	Severity  models.Severity
	AgainstID string
}

type FoundFormModel struct {
	KingdomName string
	Members     string
}

type CommentFormModel struct {
	Text string
}

// reportMsg delivers a finished oracle consultation. A nil report means
// the generation errored before the fallback could even be produced; the
// previous report stays on screen.
type reportMsg struct {
	report *models.KingdomReport
}

type Model struct {
	svc   *kingdom.Service
	state SessionState
	keys  KeyMap
	help  help.Model

	user      models.FamilyMember
	report    *models.KingdomReport
	analyzing bool

	signinCursor  int
	questCursor   int
	travelCursor  int
	vaultCursor   int
	councilCursor int

	form          *huh.Form
	questForm     *QuestFormModel
	grievanceForm *GrievanceFormModel
	foundForm     *FoundFormModel
	commentForm   *CommentFormModel

	quitting bool
	width    int
	height   int
}

func NewModel(svc *kingdom.Service) Model {
	m := Model{
		svc:   svc,
		state: StateSignIn,
		keys:  DefaultKeyMap(),
		help:  help.New(),
	}

	if !svc.Founded() {
		m.foundForm = &FoundFormModel{KingdomName: "Vaiga World"}
		m.form = newFoundForm(m.foundForm)
		m.state = StateFounding
	}

	return m
}

func (m Model) Init() tea.Cmd {
	if m.state == StateFounding && m.form != nil {
		return m.form.Init()
	}
	return nil
}

// fetchReport consults the oracle off the UI loop. Staleness fencing lives
// in the service, so a slow response from an earlier refresh never
// clobbers a newer one.
func (m Model) fetchReport() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		rep, err := svc.GenerateReportSync(context.Background())
		if err != nil {
			return reportMsg{}
		}
		return reportMsg{report: &rep}
	}
}

// syncUser re-reads the signed-in member so the wallet reflects point
// changes made by the latest transition.
func (m *Model) syncUser() {
	if m.user.ID == "" {
		return
	}
	if updated, ok := m.svc.FindMember(m.user.ID); ok {
		m.user = updated
	}
}

func (m Model) tabIndex() int {
	for i, s := range tabStates {
		if m.state == s {
			return i
		}
	}
	return -1
}
