package report

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vaigaworld/vaiga/internal/models"
)

func oracleServer(t *testing.T, status int, reportJSON string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") == "" {
			t.Error("expected api key header on oracle request")
		}
		w.WriteHeader(status)
		if status != http.StatusOK {
			fmt.Fprint(w, `{"error": {"message": "boom"}}`)
			return
		}
		envelope := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": reportJSON}}}},
			},
		}
		json.NewEncoder(w).Encode(envelope)
	}))
}

func testSnapshot() models.Snapshot {
	return models.Snapshot{
		KingdomName: "Testonia",
		Members: []models.FamilyMember{
			{ID: "m1", Name: "Ada", Points: 120},
			{ID: "m2", Name: "Leo", Points: 45},
		},
		Chores: []models.Chore{
			{ID: "c1", Title: "Dishes", Points: 40, AssignedToID: "m1", Status: models.ChoreStatusDone, Category: models.CategoryCleaning},
			{ID: "c2", Title: "Homework", Points: 50, Status: models.ChoreStatusTodo, Category: models.CategoryHomework},
		},
		TravelTargets: []models.TravelTarget{
			{ID: "t1", Location: "Montreal", Status: models.TravelPlanned},
		},
		Grievances: []models.Grievance{
			{ID: "g1", FromID: "m2", AgainstID: "m1", Title: "Hogging the TV", Content: "Every evening!", Severity: models.SeverityMild},
		},
	}
}

func TestGenerate_ParsesValidResponse(t *testing.T) {
	srv := oracleServer(t, http.StatusOK, `{
		"summary": "A fine week in the realm.",
		"heroOfTheWeek": "Ada",
		"efficiencyScore": 50,
		"encouragingNudge": "Share the remote.",
		"royalMediation": "Alternate evenings.",
		"emotionalClimate": "SUNNY",
		"socialInsight": "Sibling friction, nothing serious."
	}`)
	defer srv.Close()

	client := NewClient("test-key", nil).WithBaseURL(srv.URL)
	rep, err := client.Generate(context.Background(), testSnapshot())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if rep.HeroOfTheWeek != "Ada" {
		t.Errorf("expected hero Ada, got %q", rep.HeroOfTheWeek)
	}
	if rep.EfficiencyScore != 50 {
		t.Errorf("expected efficiency 50, got %d", rep.EfficiencyScore)
	}
	if rep.EmotionalClimate != models.ClimateSunny {
		t.Errorf("expected SUNNY, got %s", rep.EmotionalClimate)
	}
	if rep.RoyalMediation != "Alternate evenings." {
		t.Errorf("unexpected mediation: %q", rep.RoyalMediation)
	}
}

func TestGenerate_NoAPIKeyFallsBack(t *testing.T) {
	client := NewClient("", nil)

	rep, err := client.Generate(context.Background(), testSnapshot())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if rep != Fallback() {
		t.Errorf("expected fallback report, got %+v", rep)
	}
}

func TestGenerate_ServerErrorFallsBack(t *testing.T) {
	srv := oracleServer(t, http.StatusInternalServerError, "")
	defer srv.Close()

	client := NewClient("test-key", nil).WithBaseURL(srv.URL)
	rep, err := client.Generate(context.Background(), testSnapshot())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if rep != Fallback() {
		t.Errorf("expected fallback report, got %+v", rep)
	}
}

func TestGenerate_MissingRequiredFieldFallsBack(t *testing.T) {
	srv := oracleServer(t, http.StatusOK, `{
		"summary": "Missing everything else",
		"emotionalClimate": "SUNNY"
	}`)
	defer srv.Close()

	client := NewClient("test-key", nil).WithBaseURL(srv.URL)
	rep, _ := client.Generate(context.Background(), testSnapshot())
	if rep != Fallback() {
		t.Errorf("expected fallback on missing fields, got %+v", rep)
	}
}

func TestGenerate_UnknownClimateFallsBack(t *testing.T) {
	srv := oracleServer(t, http.StatusOK, `{
		"summary": "s",
		"heroOfTheWeek": "Ada",
		"efficiencyScore": 10,
		"encouragingNudge": "n",
		"emotionalClimate": "VOLCANIC",
		"socialInsight": "i"
	}`)
	defer srv.Close()

	client := NewClient("test-key", nil).WithBaseURL(srv.URL)
	rep, _ := client.Generate(context.Background(), testSnapshot())
	if rep != Fallback() {
		t.Errorf("expected fallback on unknown climate, got %+v", rep)
	}
}

func TestBuildPrompt_IncludesHouseholdDigest(t *testing.T) {
	prompt := BuildPrompt(testSnapshot())

	for _, want := range []string{
		"'Testonia'",
		"- Dishes (40 pts) [Ada]: DONE",
		"- Homework (50 pts) [Unclaimed]: TODO",
		"- Montreal: PLANNED",
		"Ada: 120 pts, Leo: 45 pts",
		"From Leo regarding Ada: [MILD] Hogging the TV",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_EmptyBoardsUsePlaceholders(t *testing.T) {
	prompt := BuildPrompt(models.Snapshot{})

	if !strings.Contains(prompt, "'Vaiga World'") {
		t.Error("expected default kingdom label")
	}
	if !strings.Contains(prompt, "No expeditions planned yet.") {
		t.Error("expected travel placeholder")
	}
	if !strings.Contains(prompt, "pure harmony") {
		t.Error("expected grievance placeholder")
	}
}
