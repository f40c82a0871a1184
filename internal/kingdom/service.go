package kingdom

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/vaigaworld/vaiga/internal/logging"
	"github.com/vaigaworld/vaiga/internal/models"
	"github.com/vaigaworld/vaiga/internal/storage"
)

// ReportGenerator produces the oracle's narrative summary from a snapshot.
// Implementations are best-effort: they return a usable report even when
// the upstream service fails.
type ReportGenerator interface {
	Generate(ctx context.Context, snap models.Snapshot) (models.KingdomReport, error)
}

// QuestDraft is what the quest form submits. Title is the only required
// field.
type QuestDraft struct {
	Title        string
	Description  string
	Points       int
	Category     models.ChoreCategory
	AssignedToID string
}

// GrievanceDraft is what the concern form submits.
type GrievanceDraft struct {
	Title     string
	Content   string
	Severity  models.Severity
	AgainstID string
}

// MemberDraft is one roster line on the founding form. Blank names are
// filtered out.
type MemberDraft struct {
	Name string
	Role string
}

// Service owns the in-memory kingdom state. All transitions go through it:
// it applies the change, write-through persists the snapshot, and notifies
// subscribers. There is exactly one writer per process, so a single mutex
// suffices.
type Service struct {
	mu          sync.Mutex
	snap        models.Snapshot
	store       storage.Provider
	gen         ReportGenerator
	log         *logging.Logger
	report      *models.KingdomReport
	reportSeq   uint64
	lastHash    uint64
	subscribers []func()

	now   func() time.Time
	newID func() string
}

// New loads the snapshot from the store and returns a ready service. A
// missing or corrupt snapshot is not an error; the store degrades it to
// seed data.
func New(store storage.Provider, gen ReportGenerator, log *logging.Logger) (*Service, error) {
	snap, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	return &Service{
		snap:  snap,
		store: store,
		gen:   gen,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}, nil
}

// Subscribe registers a callback invoked after every applied change,
// including report arrivals. Callbacks run outside the state lock.
func (s *Service) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Service) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// persist write-through saves the snapshot. The caller must hold the lock.
// The write is skipped before founding (no kingdom name or empty roster)
// and when the snapshot is unchanged since the last write. Save failures
// are logged, never surfaced: the in-memory state stays authoritative.
func (s *Service) persist() {
	if s.snap.KingdomName == "" || len(s.snap.Members) == 0 {
		return
	}

	hash, hashErr := hashstructure.Hash(s.snap, hashstructure.FormatV2, nil)
	if hashErr == nil && hash == s.lastHash {
		return
	}

	if err := s.store.Save(s.snap); err != nil {
		s.log.Printf("kingdom: persist snapshot: %v", err)
		return
	}
	// Record the hash only once the snapshot is durably written, so a
	// failed save is retried on the next persist even if nothing changed.
	if hashErr == nil {
		s.lastHash = hash
	}
}

// Founded reports whether a household has been established.
func (s *Service) Founded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.KingdomName != "" && len(s.snap.Members) > 0
}

// KingdomName returns the household name, empty before founding.
func (s *Service) KingdomName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.KingdomName
}

// Snapshot returns a deep copy of the current state.
func (s *Service) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySnapshot(s.snap)
}

func copySnapshot(snap models.Snapshot) models.Snapshot {
	out := snap
	out.Members = append([]models.FamilyMember(nil), snap.Members...)
	out.Chores = append([]models.Chore(nil), snap.Chores...)
	out.TravelTargets = append([]models.TravelTarget(nil), snap.TravelTargets...)
	out.Grievances = append([]models.Grievance(nil), snap.Grievances...)
	for i := range out.Grievances {
		out.Grievances[i].Comments = append([]models.GrievanceComment(nil), snap.Grievances[i].Comments...)
	}
	return out
}

// Members returns a copy of the roster.
func (s *Service) Members() []models.FamilyMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.FamilyMember(nil), s.snap.Members...)
}

// Chores returns a copy of the quest board, most recent first.
func (s *Service) Chores() []models.Chore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Chore(nil), s.snap.Chores...)
}

// Grievances returns a copy of the council docket, most recent first.
func (s *Service) Grievances() []models.Grievance {
	snap := s.Snapshot()
	return snap.Grievances
}

// TravelTargets returns a copy of the expedition roadmap.
func (s *Service) TravelTargets() []models.TravelTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TravelTarget(nil), s.snap.TravelTargets...)
}

// FindMember resolves a member by id or (case-insensitive) name. This is
// the whole sign-in model: picking a locally defined profile.
func (s *Service) FindMember(key string) (models.FamilyMember, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.snap.Members {
		if m.ID == key || strings.EqualFold(m.Name, key) {
			return m, true
		}
	}
	return models.FamilyMember{}, false
}

// FoundHousehold establishes the kingdom with the given roster. Blank-name
// drafts are dropped, each member gets a fresh id, a deterministic avatar,
// and zero points. Re-founding an existing household is rejected unless
// force is set, so a repeated run never silently wipes the roster.
func (s *Service) FoundHousehold(name string, drafts []MemberDraft, force bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("kingdom name must not be empty")
	}

	var members []models.FamilyMember
	for _, d := range drafts {
		memberName := strings.TrimSpace(d.Name)
		if memberName == "" {
			continue
		}
		role := strings.TrimSpace(d.Role)
		if role == "" {
			role = "Member"
		}
		members = append(members, models.FamilyMember{
			ID:     s.newID(),
			Name:   memberName,
			Avatar: models.AvatarURL(memberName),
			Role:   role,
			Points: 0,
		})
	}
	if len(members) == 0 {
		return fmt.Errorf("at least one member with a name is required")
	}

	s.mu.Lock()
	if s.snap.KingdomName != "" && len(s.snap.Members) > 0 && !force {
		founded := s.snap.KingdomName
		s.mu.Unlock()
		return fmt.Errorf("household %q already founded; re-found with --force to overwrite the roster", founded)
	}
	s.snap.KingdomName = name
	s.snap.Members = members
	s.persist()
	s.mu.Unlock()

	s.notify()
	return nil
}

// ToggleChore flips a chore between TODO and DONE. Completing credits the
// actor and claims the chore for them; un-completing debits whoever
// completed it (falling back to the current assignee, then the actor),
// clamped so no balance goes negative. Unknown ids are no-ops.
func (s *Service) ToggleChore(choreID, actorID string) {
	s.mu.Lock()
	actor := s.snap.MemberByID(actorID)
	if actor == nil {
		s.mu.Unlock()
		return
	}

	var chore *models.Chore
	for i := range s.snap.Chores {
		if s.snap.Chores[i].ID == choreID {
			chore = &s.snap.Chores[i]
			break
		}
	}
	if chore == nil {
		s.mu.Unlock()
		return
	}

	if chore.Status != models.ChoreStatusDone {
		actor.Points += chore.Points
		chore.Status = models.ChoreStatusDone
		chore.AssignedToID = actor.ID
		chore.CompletedByID = actor.ID
	} else {
		debtor := s.snap.MemberByID(chore.CompletedByID)
		if debtor == nil {
			debtor = s.snap.MemberByID(chore.AssignedToID)
		}
		if debtor == nil {
			debtor = actor
		}
		debtor.Points -= chore.Points
		if debtor.Points < 0 {
			debtor.Points = 0
		}
		chore.Status = models.ChoreStatusTodo
		chore.CompletedByID = ""
	}

	s.persist()
	s.mu.Unlock()
	s.notify()
}

// CreateQuest posts a new chore from the draft, most recent first. An empty
// title is a silent no-op.
func (s *Service) CreateQuest(draft QuestDraft, actorID string) (models.Chore, bool) {
	if strings.TrimSpace(draft.Title) == "" {
		return models.Chore{}, false
	}

	category := draft.Category
	if category == "" {
		category = models.CategoryOther
	}

	chore := models.Chore{
		ID:           s.newID(),
		Title:        draft.Title,
		Description:  draft.Description,
		Points:       draft.Points,
		Category:     category,
		AssignedToID: draft.AssignedToID,
		Status:       models.ChoreStatusTodo,
	}

	s.mu.Lock()
	s.snap.Chores = append([]models.Chore{chore}, s.snap.Chores...)
	s.persist()
	s.mu.Unlock()

	s.notify()
	return chore, true
}

// CycleTravelStatus advances a target NOT_PLANNED → PLANNED → DONE and
// around again. Unknown ids are no-ops.
func (s *Service) CycleTravelStatus(targetID string) {
	s.mu.Lock()
	changed := false
	for i := range s.snap.TravelTargets {
		if s.snap.TravelTargets[i].ID == targetID {
			s.snap.TravelTargets[i].Status = models.NextTravelStatus(s.snap.TravelTargets[i].Status)
			changed = true
			break
		}
	}
	if changed {
		s.persist()
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// RedeemReward debits the reward cost from the actor. When the balance is
// too low nothing changes and the shortfall is returned so the caller can
// tell the user how much Star Gold they still need.
func (s *Service) RedeemReward(reward models.Reward, actorID string) (shortfall int, ok bool) {
	s.mu.Lock()
	actor := s.snap.MemberByID(actorID)
	if actor == nil {
		s.mu.Unlock()
		return 0, false
	}
	if actor.Points < reward.Cost {
		short := reward.Cost - actor.Points
		s.mu.Unlock()
		return short, false
	}
	actor.Points -= reward.Cost
	s.persist()
	s.mu.Unlock()

	s.notify()
	return 0, true
}

// FileGrievance records a new concern, most recent first. An empty title is
// a silent no-op.
func (s *Service) FileGrievance(draft GrievanceDraft, actorID string) (models.Grievance, bool) {
	if strings.TrimSpace(draft.Title) == "" {
		return models.Grievance{}, false
	}

	severity := draft.Severity
	if severity == "" {
		severity = models.SeverityMild
	}

	grievance := models.Grievance{
		ID:         s.newID(),
		FromID:     actorID,
		AgainstID:  draft.AgainstID,
		Title:      draft.Title,
		Content:    draft.Content,
		Severity:   severity,
		Timestamp:  s.now(),
		IsResolved: false,
		Comments:   []models.GrievanceComment{},
	}

	s.mu.Lock()
	s.snap.Grievances = append([]models.Grievance{grievance}, s.snap.Grievances...)
	s.persist()
	s.mu.Unlock()

	s.notify()
	return grievance, true
}

// AddGrievanceComment appends to a grievance's discussion. Blank text,
// unknown ids, and resolved grievances are no-ops.
func (s *Service) AddGrievanceComment(grievanceID, text, actorID string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	s.mu.Lock()
	changed := false
	for i := range s.snap.Grievances {
		g := &s.snap.Grievances[i]
		if g.ID != grievanceID || g.IsResolved {
			continue
		}
		g.Comments = append(g.Comments, models.GrievanceComment{
			ID:        s.newID(),
			FromID:    actorID,
			Content:   text,
			Timestamp: s.now(),
		})
		changed = true
		break
	}
	if changed {
		s.persist()
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// ResolveGrievance latches a grievance resolved. Idempotent; unknown ids
// are no-ops.
func (s *Service) ResolveGrievance(grievanceID string) {
	s.mu.Lock()
	changed := false
	for i := range s.snap.Grievances {
		if s.snap.Grievances[i].ID == grievanceID {
			changed = !s.snap.Grievances[i].IsResolved
			s.snap.Grievances[i].IsResolved = true
			break
		}
	}
	if changed {
		s.persist()
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// Report returns the current oracle report, nil before the first
// generation completes.
func (s *Service) Report() *models.KingdomReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return nil
	}
	rep := *s.report
	return &rep
}

// RefreshReport kicks off an asynchronous report generation against the
// current snapshot. Each request carries a sequence number; a response is
// dropped when a newer request has been issued since, so the freshest
// request wins rather than the slowest response.
func (s *Service) RefreshReport(ctx context.Context) {
	if s.gen == nil {
		return
	}

	s.mu.Lock()
	s.reportSeq++
	seq := s.reportSeq
	snap := copySnapshot(s.snap)
	gen := s.gen
	s.mu.Unlock()

	go func() {
		rep, err := gen.Generate(ctx, snap)
		if err != nil {
			s.log.Printf("kingdom: report generation: %v", err)
			return
		}

		s.mu.Lock()
		if seq != s.reportSeq {
			s.mu.Unlock()
			return
		}
		s.report = &rep
		s.mu.Unlock()
		s.notify()
	}()
}

// GenerateReportSync produces a report for the current snapshot and applies
// it, blocking until done. Used by the CLI where fire-and-forget has
// nothing to render into.
func (s *Service) GenerateReportSync(ctx context.Context) (models.KingdomReport, error) {
	if s.gen == nil {
		return models.KingdomReport{}, fmt.Errorf("no report generator configured")
	}

	s.mu.Lock()
	s.reportSeq++
	seq := s.reportSeq
	snap := copySnapshot(s.snap)
	s.mu.Unlock()

	rep, err := s.gen.Generate(ctx, snap)
	if err != nil {
		return models.KingdomReport{}, err
	}

	s.mu.Lock()
	applied := seq == s.reportSeq
	if applied {
		s.report = &rep
	}
	s.mu.Unlock()

	if applied {
		s.notify()
	}
	return rep, nil
}
