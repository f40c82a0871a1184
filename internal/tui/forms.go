package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/vaigaworld/vaiga/internal/kingdom"
	"github.com/vaigaworld/vaiga/internal/models"
)

// newFoundForm builds the founding flow: kingdom name plus one roster line
// per member, written as 'Name' or 'Name:Role'.
func newFoundForm(fm *FoundFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Kingdom Name").
				Value(&fm.KingdomName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("kingdom name cannot be empty")
					}
					return nil
				}),
			huh.NewText().
				Title("Members").
				Description("One per line, as 'Name' or 'Name:Role'.").
				Value(&fm.Members).
				Validate(func(s string) error {
					for _, line := range strings.Split(s, "\n") {
						if strings.TrimSpace(line) != "" {
							return nil
						}
					}
					return fmt.Errorf("at least one member is required")
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// newQuestForm builds the 'Post a Quest' form.
func newQuestForm(fm *QuestFormModel, members []models.FamilyMember) *huh.Form {
	assignOptions := []huh.Option[string]{huh.NewOption("Unclaimed", "")}
	for _, m := range members {
		assignOptions = append(assignOptions, huh.NewOption(m.Name, m.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Quest Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("quest title cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
			huh.NewInput().
				Title("Star Gold").
				Value(&fm.Points).
				Validate(func(s string) error {
					i, err := strconv.Atoi(s)
					if err != nil {
						return err
					}
					if i <= 0 {
						return fmt.Errorf("points must be a positive number")
					}
					return nil
				}),
			huh.NewSelect[models.ChoreCategory]().
				Title("Category").
				Options(
					huh.NewOption("Cleaning", models.CategoryCleaning),
					huh.NewOption("Cooking", models.CategoryCooking),
					huh.NewOption("Homework", models.CategoryHomework),
					huh.NewOption("Baking", models.CategoryBaking),
					huh.NewOption("Teaching", models.CategoryTeaching),
					huh.NewOption("Other", models.CategoryOther),
				).
				Value(&fm.Category),
			huh.NewSelect[string]().
				Title("Assign To").
				Options(assignOptions...).
				Value(&fm.AssignToID),
		),
	).WithTheme(huh.ThemeDracula())
}

// newGrievanceForm builds the 'Raise a Concern' form. The signed-in member
// is excluded from the 'regarding' options, matching the dashboard.
func newGrievanceForm(fm *GrievanceFormModel, members []models.FamilyMember, selfID string) *huh.Form {
	againstOptions := []huh.Option[string]{huh.NewOption("Family Issue", "")}
	for _, m := range members {
		if m.ID == selfID {
			continue
		}
		againstOptions = append(againstOptions, huh.NewOption(m.Name, m.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Incident Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("incident title cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Regarding").
				Options(againstOptions...).
				Value(&fm.AgainstID),
			huh.NewText().
				Title("Describe the situation").
				Value(&fm.Content),
			huh.NewSelect[models.Severity]().
				Title("Severity").
				Options(
					huh.NewOption("Small Tiff", models.SeverityMild),
					huh.NewOption("Dispute", models.SeverityModerate),
					huh.NewOption("Serious Concern", models.SeveritySevere),
				).
				Value(&fm.Severity),
		),
	).WithTheme(huh.ThemeDracula())
}

// newCommentForm builds the single-field investigation comment form.
func newCommentForm(fm *CommentFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Ask a question or add a detail").
				Value(&fm.Text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("comment cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// parseMemberLines turns the founding textarea into roster drafts.
func parseMemberLines(s string) []kingdom.MemberDraft {
	var drafts []kingdom.MemberDraft
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, role, _ := strings.Cut(line, ":")
		drafts = append(drafts, kingdom.MemberDraft{Name: name, Role: role})
	}
	return drafts
}
