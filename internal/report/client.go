package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vaigaworld/vaiga/internal/logging"
	"github.com/vaigaworld/vaiga/internal/models"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-3-flash-preview"
)

// Fallback is the report shown when the oracle is unreachable or returns
// something unusable. It is presented as if genuine; the failure is only
// logged.
func Fallback() models.KingdomReport {
	return models.KingdomReport{
		Summary:          "The Oracle is currently meditating. The vibe remains a mystery of the ages.",
		HeroOfTheWeek:    "Everyone",
		EfficiencyScore:  50,
		EncouragingNudge: "Speak kindly and act bravely.",
		EmotionalClimate: models.ClimateBreezy,
		SocialInsight:    "The family seems to be in a quiet transition.",
	}
}

// Client talks to the generative-text service. It is best-effort
// enrichment: Generate never returns an error for call or parse failures,
// it degrades to the fallback report.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	log     *logging.Logger
}

func NewClient(apiKey string, log *logging.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// WithBaseURL points the client at a different endpoint. Used in tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// responseSchema constrains the oracle's reply to the report shape.
var responseSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"summary": {"type": "STRING"},
		"heroOfTheWeek": {"type": "STRING"},
		"efficiencyScore": {"type": "NUMBER"},
		"encouragingNudge": {"type": "STRING"},
		"royalMediation": {"type": "STRING"},
		"emotionalClimate": {"type": "STRING", "enum": ["SUNNY", "BREEZY", "OVERCAST", "STORMY", "STARRY"]},
		"socialInsight": {"type": "STRING"}
	},
	"required": ["summary", "heroOfTheWeek", "efficiencyScore", "encouragingNudge", "emotionalClimate", "socialInsight"]
}`)

// Generate builds the vibe digest, asks the oracle for a structured
// report, and validates the reply. Every failure path returns the fallback
// report with a nil error.
func (c *Client) Generate(ctx context.Context, snap models.Snapshot) (models.KingdomReport, error) {
	if c.apiKey == "" {
		c.log.Printf("report: no API key configured, using fallback")
		return Fallback(), nil
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: BuildPrompt(snap)}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		c.log.Printf("report: marshal request: %v", err)
		return Fallback(), nil
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		c.log.Printf("report: build request: %v", err)
		return Fallback(), nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Printf("report: call oracle: %v", err)
		return Fallback(), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.log.Printf("report: read response: %v", err)
		return Fallback(), nil
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Printf("report: oracle returned status %d", resp.StatusCode)
		return Fallback(), nil
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		c.log.Printf("report: decode envelope: %v", err)
		return Fallback(), nil
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		c.log.Printf("report: empty response from oracle")
		return Fallback(), nil
	}

	rep, err := parseReport([]byte(gr.Candidates[0].Content.Parts[0].Text))
	if err != nil {
		c.log.Printf("report: %v", err)
		return Fallback(), nil
	}
	return rep, nil
}

// parseReport validates the oracle's JSON against the report contract:
// every required field present, efficiencyScore numeric, climate one of
// the five known values.
func parseReport(data []byte) (models.KingdomReport, error) {
	var raw struct {
		Summary          *string  `json:"summary"`
		HeroOfTheWeek    *string  `json:"heroOfTheWeek"`
		EfficiencyScore  *float64 `json:"efficiencyScore"`
		EncouragingNudge *string  `json:"encouragingNudge"`
		RoyalMediation   string   `json:"royalMediation"`
		EmotionalClimate *string  `json:"emotionalClimate"`
		SocialInsight    *string  `json:"socialInsight"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.KingdomReport{}, fmt.Errorf("parse report: %w", err)
	}

	if raw.Summary == nil || raw.HeroOfTheWeek == nil || raw.EfficiencyScore == nil ||
		raw.EncouragingNudge == nil || raw.EmotionalClimate == nil || raw.SocialInsight == nil {
		return models.KingdomReport{}, fmt.Errorf("report missing required fields")
	}

	climate := models.EmotionalClimate(*raw.EmotionalClimate)
	if !models.ValidClimate(climate) {
		return models.KingdomReport{}, fmt.Errorf("report has unknown climate %q", *raw.EmotionalClimate)
	}

	return models.KingdomReport{
		Summary:          *raw.Summary,
		HeroOfTheWeek:    *raw.HeroOfTheWeek,
		EfficiencyScore:  int(*raw.EfficiencyScore),
		EncouragingNudge: *raw.EncouragingNudge,
		RoyalMediation:   raw.RoyalMediation,
		EmotionalClimate: climate,
		SocialInsight:    *raw.SocialInsight,
	}, nil
}

// BuildPrompt renders the household digest the oracle analyzes: every
// chore with points, assignee and status, the expedition roadmap, the
// point rankings, and every grievance with filer, subject, severity and
// body.
func BuildPrompt(snap models.Snapshot) string {
	var chores []string
	for _, c := range snap.Chores {
		assigned := snap.MemberName(c.AssignedToID, "Unclaimed")
		chores = append(chores, fmt.Sprintf("- %s (%d pts) [%s]: %s", c.Title, c.Points, assigned, c.Status))
	}

	travel := "No expeditions planned yet."
	if len(snap.TravelTargets) > 0 {
		var lines []string
		for _, t := range snap.TravelTargets {
			lines = append(lines, fmt.Sprintf("- %s: %s", t.Location, t.Status))
		}
		travel = strings.Join(lines, "\n")
	}

	var rankings []string
	for _, m := range snap.Members {
		rankings = append(rankings, fmt.Sprintf("%s: %d pts", m.Name, m.Points))
	}

	grievances := "No grievances reported! The kingdom is in a state of pure harmony."
	if len(snap.Grievances) > 0 {
		var lines []string
		for _, g := range snap.Grievances {
			regarding := "General"
			if g.AgainstID != "" {
				regarding = snap.MemberName(g.AgainstID, "General")
			}
			lines = append(lines, fmt.Sprintf("- From %s regarding %s: [%s] %s - %q",
				snap.MemberName(g.FromID, "Unknown"), regarding, g.Severity, g.Title, g.Content))
		}
		grievances = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`You are the 'Oracle of the Family Vibe' in the RPG realm of '%s'.
Analyze the kingdom's emotional and productivity state based on this data:

HERO PRODUCTIVITY (Chores):
%s

EXPEDITIONS (Travel Targets):
%s

HERO RANKINGS:
%s

COUNCIL WHISPERS (Grievances/Conflicts):
%s

Write a 'Family Vibe Report'. Focus heavily on emotional intelligence, social dynamics, and well-being.

Return a JSON object:
1. summary: A fun, fantasy-themed summary of the vibe.
2. heroOfTheWeek: Name of the person showing the best spirit (not just points).
3. efficiencyScore: Percentage of chores completed (0-100).
4. encouragingNudge: A gentle, wise RPG-themed tip for better family connection.
5. royalMediation: If grievances exist, provide a fair, kind, and funny resolution.
6. emotionalClimate: One of: 'SUNNY' (Great vibe), 'BREEZY' (Good), 'OVERCAST' (Stale), 'STORMY' (High conflict), 'STARRY' (Magical/Perfect).
7. socialInsight: A 1-sentence observation about how the family is getting along socially.`,
		kingdomLabel(snap), strings.Join(chores, "\n"), travel, strings.Join(rankings, ", "), grievances)
}

func kingdomLabel(snap models.Snapshot) string {
	if snap.KingdomName != "" {
		return snap.KingdomName
	}
	return "Vaiga World"
}
