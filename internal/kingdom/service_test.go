package kingdom

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/vaigaworld/vaiga/internal/models"
)

// memStore keeps the snapshot in memory and counts saves, so tests can
// assert on write-through behavior without touching disk.
type memStore struct {
	snap  models.Snapshot
	saves int
}

func (m *memStore) Init() error                    { return nil }
func (m *memStore) Load() (models.Snapshot, error) { return m.snap, nil }
func (m *memStore) Close() error                   { return nil }
func (m *memStore) Path() string                   { return "mem" }
func (m *memStore) Save(snap models.Snapshot) error {
	m.snap = snap
	m.saves++
	return nil
}

func newTestService(t *testing.T, snap models.Snapshot) (*Service, *memStore) {
	t.Helper()
	store := &memStore{snap: snap}
	svc, err := New(store, nil, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	counter := 0
	svc.newID = func() string {
		counter++
		return fmt.Sprintf("id-%d", counter)
	}
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc, store
}

func foundedSnapshot() models.Snapshot {
	return models.Snapshot{
		KingdomName: "Testonia",
		Members: []models.FamilyMember{
			{ID: "m1", Name: "Ada", Role: "Queen", Points: 80},
			{ID: "m2", Name: "Leo", Role: "Knight", Points: 0},
		},
		Chores: []models.Chore{
			{ID: "c1", Title: "Dishes", Points: 40, Status: models.ChoreStatusTodo, Category: models.CategoryCleaning},
			{ID: "c2", Title: "Homework", Points: 50, Status: models.ChoreStatusTodo, Category: models.CategoryHomework},
		},
		TravelTargets: []models.TravelTarget{
			{ID: "t1", Location: "Montreal", Status: models.TravelNotPlanned},
		},
	}
}

func TestToggleChore_CompleteCreditsActor(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())

	svc.ToggleChore("c1", "m2")

	member, _ := svc.FindMember("m2")
	if member.Points != 40 {
		t.Errorf("expected 40 points after completing, got %d", member.Points)
	}

	chores := svc.Chores()
	if chores[0].Status != models.ChoreStatusDone {
		t.Errorf("expected chore DONE, got %s", chores[0].Status)
	}
	if chores[0].AssignedToID != "m2" || chores[0].CompletedByID != "m2" {
		t.Errorf("expected chore claimed by m2, got assigned=%q completed=%q",
			chores[0].AssignedToID, chores[0].CompletedByID)
	}
}

func TestToggleChore_CompleteTwoAccumulates(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())

	svc.ToggleChore("c1", "m2")
	svc.ToggleChore("c2", "m2")

	member, _ := svc.FindMember("m2")
	if member.Points != 90 {
		t.Errorf("expected 90 points after both chores, got %d", member.Points)
	}
}

func TestToggleChore_UncompleteDebitsCompleter(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())

	svc.ToggleChore("c1", "m2")
	// Someone else un-toggles; the debit must land on the completer.
	svc.ToggleChore("c1", "m1")

	m2, _ := svc.FindMember("m2")
	if m2.Points != 0 {
		t.Errorf("expected completer debited back to 0, got %d", m2.Points)
	}
	m1, _ := svc.FindMember("m1")
	if m1.Points != 80 {
		t.Errorf("expected actor untouched at 80, got %d", m1.Points)
	}

	chores := svc.Chores()
	if chores[0].Status != models.ChoreStatusTodo {
		t.Errorf("expected chore back to TODO, got %s", chores[0].Status)
	}
	if chores[0].CompletedByID != "" {
		t.Errorf("expected completer cleared, got %q", chores[0].CompletedByID)
	}
}

func TestToggleChore_DebitClampsAtZero(t *testing.T) {
	snap := foundedSnapshot()
	snap.Chores[0].Status = models.ChoreStatusDone
	snap.Chores[0].CompletedByID = "m2"
	// m2 has 0 points but somehow a completed 40-point chore; un-toggling
	// must not push the balance negative.
	svc, _ := newTestService(t, snap)

	svc.ToggleChore("c1", "m2")

	member, _ := svc.FindMember("m2")
	if member.Points != 0 {
		t.Errorf("expected balance clamped at 0, got %d", member.Points)
	}
}

func TestToggleChore_UnknownIDsAreNoOps(t *testing.T) {
	svc, store := newTestService(t, foundedSnapshot())

	svc.ToggleChore("c1", "nobody")
	svc.ToggleChore("missing", "m1")

	if store.saves != 0 {
		t.Errorf("expected no persistence for no-op toggles, got %d saves", store.saves)
	}
}

func TestCreateQuest_PrependsAndDefaultsCategory(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())

	chore, ok := svc.CreateQuest(QuestDraft{Title: "Mow Lawn", Points: 25}, "m1")
	if !ok {
		t.Fatal("expected quest to be created")
	}
	if chore.Category != models.CategoryOther {
		t.Errorf("expected default category OTHER, got %s", chore.Category)
	}

	chores := svc.Chores()
	if chores[0].ID != chore.ID {
		t.Errorf("expected new quest first, got %s", chores[0].ID)
	}
	if len(chores) != 3 {
		t.Errorf("expected 3 chores, got %d", len(chores))
	}
}

func TestCreateQuest_EmptyTitleIsNoOp(t *testing.T) {
	svc, store := newTestService(t, foundedSnapshot())

	_, ok := svc.CreateQuest(QuestDraft{Title: "   "}, "m1")
	if ok {
		t.Error("expected blank-title quest to be rejected")
	}
	if len(svc.Chores()) != 2 {
		t.Errorf("expected board unchanged, got %d chores", len(svc.Chores()))
	}
	if store.saves != 0 {
		t.Errorf("expected no save, got %d", store.saves)
	}
}

func TestCycleTravelStatus_ThreeStepsCloseTheLoop(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())

	svc.CycleTravelStatus("t1")
	if got := svc.TravelTargets()[0].Status; got != models.TravelPlanned {
		t.Fatalf("expected PLANNED after one cycle, got %s", got)
	}
	svc.CycleTravelStatus("t1")
	if got := svc.TravelTargets()[0].Status; got != models.TravelDone {
		t.Fatalf("expected DONE after two cycles, got %s", got)
	}
	svc.CycleTravelStatus("t1")
	if got := svc.TravelTargets()[0].Status; got != models.TravelNotPlanned {
		t.Fatalf("expected NOT_PLANNED after three cycles, got %s", got)
	}
}

func TestRedeemReward_SufficientBalance(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())

	shortfall, ok := svc.RedeemReward(models.Reward{ID: "r1", Title: "Gaming", Cost: 50}, "m1")
	if !ok || shortfall != 0 {
		t.Fatalf("expected redemption to succeed, got ok=%v shortfall=%d", ok, shortfall)
	}

	member, _ := svc.FindMember("m1")
	if member.Points != 30 {
		t.Errorf("expected 30 points after redeeming, got %d", member.Points)
	}
}

func TestRedeemReward_ShortfallLeavesBalance(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())

	shortfall, ok := svc.RedeemReward(models.Reward{ID: "r2", Title: "Dinner", Cost: 100}, "m1")
	if ok {
		t.Fatal("expected redemption to fail")
	}
	if shortfall != 20 {
		t.Errorf("expected shortfall 20, got %d", shortfall)
	}

	member, _ := svc.FindMember("m1")
	if member.Points != 80 {
		t.Errorf("expected balance untouched at 80, got %d", member.Points)
	}
}

func TestFileGrievance_PrependsWithDefaults(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())

	first, _ := svc.FileGrievance(GrievanceDraft{Title: "Loud music"}, "m1")
	second, _ := svc.FileGrievance(GrievanceDraft{Title: "Stolen cookie", AgainstID: "m2"}, "m1")

	grievances := svc.Grievances()
	if len(grievances) != 2 {
		t.Fatalf("expected 2 grievances, got %d", len(grievances))
	}
	if grievances[0].ID != second.ID || grievances[1].ID != first.ID {
		t.Error("expected most recent grievance first")
	}
	if grievances[1].Severity != models.SeverityMild {
		t.Errorf("expected default severity MILD, got %s", grievances[1].Severity)
	}
	if grievances[1].Comments == nil {
		t.Error("expected comments initialized to empty slice")
	}
}

func TestFileGrievance_EmptyTitleIsNoOp(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())

	_, ok := svc.FileGrievance(GrievanceDraft{Title: "  "}, "m1")
	if ok {
		t.Error("expected blank-title grievance to be rejected")
	}
	if len(svc.Grievances()) != 0 {
		t.Errorf("expected docket unchanged, got %d grievances", len(svc.Grievances()))
	}
}

func TestAddGrievanceComment_AppendsInOrder(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())
	g, _ := svc.FileGrievance(GrievanceDraft{Title: "Noise"}, "m1")

	svc.AddGrievanceComment(g.ID, "Please stop", "m2")
	svc.AddGrievanceComment(g.ID, "It was once!", "m1")

	comments := svc.Grievances()[0].Comments
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Content != "Please stop" || comments[1].Content != "It was once!" {
		t.Error("expected comments in filing order")
	}
}

func TestAddGrievanceComment_ResolvedIsNoOp(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())
	g, _ := svc.FileGrievance(GrievanceDraft{Title: "Noise"}, "m1")
	svc.ResolveGrievance(g.ID)

	svc.AddGrievanceComment(g.ID, "Too late", "m2")

	if n := len(svc.Grievances()[0].Comments); n != 0 {
		t.Errorf("expected no comments on resolved grievance, got %d", n)
	}
}

func TestResolveGrievance_Idempotent(t *testing.T) {
	svc, store := newTestService(t, foundedSnapshot())
	g, _ := svc.FileGrievance(GrievanceDraft{Title: "Noise"}, "m1")

	svc.ResolveGrievance(g.ID)
	saves := store.saves
	svc.ResolveGrievance(g.ID)

	if !svc.Grievances()[0].IsResolved {
		t.Error("expected grievance resolved")
	}
	if store.saves != saves {
		t.Errorf("expected second resolve to skip persistence, got %d extra saves", store.saves-saves)
	}
}

func TestFoundHousehold_BuildsRoster(t *testing.T) {
	svc, _ := newTestService(t, models.SeedSnapshot())

	err := svc.FoundHousehold("Vaiga World", []MemberDraft{
		{Name: "Ada", Role: "Queen"},
		{Name: "  "},
		{Name: "Leo"},
	}, false)
	if err != nil {
		t.Fatalf("FoundHousehold failed: %v", err)
	}

	if !svc.Founded() {
		t.Fatal("expected household founded")
	}
	members := svc.Members()
	if len(members) != 2 {
		t.Fatalf("expected blank draft dropped, got %d members", len(members))
	}
	if members[1].Role != "Member" {
		t.Errorf("expected default role Member, got %q", members[1].Role)
	}
	for _, m := range members {
		if m.Points != 0 {
			t.Errorf("expected zero starting points for %s, got %d", m.Name, m.Points)
		}
		if m.Avatar == "" {
			t.Errorf("expected avatar for %s", m.Name)
		}
	}
}

func TestFoundHousehold_RefoundRejectedWithoutForce(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())

	err := svc.FoundHousehold("Usurper Land", []MemberDraft{{Name: "Eve"}}, false)
	if err == nil {
		t.Fatal("expected re-founding to be rejected")
	}
	if !strings.Contains(err.Error(), "already founded") {
		t.Errorf("unexpected error: %v", err)
	}
	if svc.KingdomName() != "Testonia" {
		t.Errorf("expected roster untouched, kingdom is now %q", svc.KingdomName())
	}
}

func TestFoundHousehold_ForceOverwrites(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())

	if err := svc.FoundHousehold("New Realm", []MemberDraft{{Name: "Eve"}}, true); err != nil {
		t.Fatalf("forced re-founding failed: %v", err)
	}
	if svc.KingdomName() != "New Realm" {
		t.Errorf("expected kingdom renamed, got %q", svc.KingdomName())
	}
	if len(svc.Members()) != 1 {
		t.Errorf("expected roster replaced, got %d members", len(svc.Members()))
	}
}

func TestPersist_SkippedBeforeFounding(t *testing.T) {
	svc, store := newTestService(t, models.SeedSnapshot())

	svc.CycleTravelStatus("t1")

	if store.saves != 0 {
		t.Errorf("expected no save before founding, got %d", store.saves)
	}
}

// flakyStore fails the first failures Save calls, then delegates to the
// in-memory store.
type flakyStore struct {
	memStore
	failures int
	attempts int
}

func (f *flakyStore) Save(snap models.Snapshot) error {
	f.attempts++
	if f.attempts <= f.failures {
		return fmt.Errorf("disk full")
	}
	return f.memStore.Save(snap)
}

func TestPersist_RetriesUnchangedSnapshotAfterFailedSave(t *testing.T) {
	store := &flakyStore{memStore: memStore{snap: foundedSnapshot()}, failures: 1}
	svc, err := New(store, nil, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	svc.ToggleChore("c1", "m2")
	if store.attempts != 1 || store.saves != 0 {
		t.Fatalf("expected one failed save attempt, got attempts=%d saves=%d", store.attempts, store.saves)
	}

	// Nothing changed since the failed write; persist must still retry
	// rather than treat the snapshot as already saved.
	svc.mu.Lock()
	svc.persist()
	svc.mu.Unlock()

	if store.saves != 1 {
		t.Errorf("expected retry to write the snapshot, got %d saves", store.saves)
	}
}

func TestPersist_DeduplicatesUnchangedSnapshots(t *testing.T) {
	svc, store := newTestService(t, foundedSnapshot())

	svc.ToggleChore("c1", "m2")
	saves := store.saves
	// Unknown target changes nothing, and must not write.
	svc.CycleTravelStatus("missing")

	if store.saves != saves {
		t.Errorf("expected no additional save, got %d", store.saves-saves)
	}
}

// stubGenerator returns a canned report, optionally waiting on a gate so
// tests can interleave slow and fast generations.
type stubGenerator struct {
	report models.KingdomReport
	gate   chan struct{}
}

func (g *stubGenerator) Generate(ctx context.Context, snap models.Snapshot) (models.KingdomReport, error) {
	if g.gate != nil {
		<-g.gate
	}
	return g.report, nil
}

func TestGenerateReportSync_AppliesReportAndNotifies(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())
	svc.gen = &stubGenerator{report: models.KingdomReport{Summary: "All is well", EmotionalClimate: models.ClimateSunny}}

	notified := 0
	svc.Subscribe(func() { notified++ })

	rep, err := svc.GenerateReportSync(context.Background())
	if err != nil {
		t.Fatalf("GenerateReportSync failed: %v", err)
	}
	if rep.Summary != "All is well" {
		t.Errorf("unexpected report: %+v", rep)
	}
	if got := svc.Report(); got == nil || got.Summary != "All is well" {
		t.Errorf("expected report applied, got %+v", got)
	}
	if notified == 0 {
		t.Error("expected subscriber notified")
	}
}

func TestRefreshReport_StaleResponseDropped(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())

	slow := &stubGenerator{
		report: models.KingdomReport{Summary: "stale", EmotionalClimate: models.ClimateOvercast},
		gate:   make(chan struct{}),
	}
	svc.gen = slow
	svc.RefreshReport(context.Background())

	// A newer sync generation supersedes the in-flight refresh.
	svc.gen = &stubGenerator{report: models.KingdomReport{Summary: "fresh", EmotionalClimate: models.ClimateSunny}}
	if _, err := svc.GenerateReportSync(context.Background()); err != nil {
		t.Fatalf("GenerateReportSync failed: %v", err)
	}

	done := make(chan struct{})
	svc.Subscribe(func() { close(done) })
	close(slow.gate)

	select {
	case <-done:
		t.Fatal("stale refresh should not notify")
	case <-time.After(50 * time.Millisecond):
	}

	if got := svc.Report(); got == nil || got.Summary != "fresh" {
		t.Errorf("expected fresh report to win, got %+v", got)
	}
}

// racingGenerator bumps the service's report sequence while generating, so
// the caller's own result is already stale by the time it returns.
type racingGenerator struct {
	svc    *Service
	report models.KingdomReport
}

func (g *racingGenerator) Generate(ctx context.Context, snap models.Snapshot) (models.KingdomReport, error) {
	g.svc.mu.Lock()
	g.svc.reportSeq++
	g.svc.mu.Unlock()
	return g.report, nil
}

func TestGenerateReportSync_LostRaceDoesNotApplyOrNotify(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())
	svc.gen = &racingGenerator{svc: svc, report: models.KingdomReport{Summary: "stale", EmotionalClimate: models.ClimateOvercast}}

	notified := 0
	svc.Subscribe(func() { notified++ })

	rep, err := svc.GenerateReportSync(context.Background())
	if err != nil {
		t.Fatalf("GenerateReportSync failed: %v", err)
	}
	if rep.Summary != "stale" {
		t.Errorf("expected the caller to still receive its report, got %+v", rep)
	}
	if svc.Report() != nil {
		t.Error("superseded report must not be applied")
	}
	if notified != 0 {
		t.Errorf("superseded report must not notify subscribers, got %d notifications", notified)
	}
}

func TestReport_NilBeforeFirstGeneration(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())

	if svc.Report() != nil {
		t.Error("expected nil report before any generation")
	}
}

func TestSnapshot_ReturnsDeepCopy(t *testing.T) {
	svc, _ := newTestService(t, foundedSnapshot())
	g, _ := svc.FileGrievance(GrievanceDraft{Title: "Noise"}, "m1")
	svc.AddGrievanceComment(g.ID, "hm", "m2")

	snap := svc.Snapshot()
	snap.Members[0].Points = 999
	snap.Grievances[0].Comments[0].Content = "mutated"

	member, _ := svc.FindMember("m1")
	if member.Points == 999 {
		t.Error("mutating the snapshot copy leaked into service state")
	}
	if svc.Grievances()[0].Comments[0].Content == "mutated" {
		t.Error("mutating copied comments leaked into service state")
	}
}
