package menu

import (
	"strings"

	"soufra_admin/internal/models"

	"github.com/google/uuid"
)

// ValidateOptionGroups checks the structure of the option groups saved on a menu item.
func ValidateOptionGroups(itemType models.ItemType, groups []models.OptionGroup) error {
	switch itemType {
	case models.SingleItem:
		if len(groups) > 0 {
			return models.NewValidationError("options", "single items cannot carry option groups")
		}
		return nil
	case models.SetMenu:
	default:
		return models.NewValidationError("item_type", "unknown item type %q", itemType)
	}

	groupIDs := make(map[string]bool, len(groups))
	for i, group := range groups {
		if strings.TrimSpace(group.Name) == "" {
			return models.NewValidationError("options", "group %d has no name", i+1)
		}
		if group.ID != "" {
			if groupIDs[group.ID] {
				return models.NewValidationError("options", "duplicate group id %q", group.ID)
			}
			groupIDs[group.ID] = true
		}
		if group.MinSelection < 0 {
			return models.NewValidationError("options", "group %q: min_selection must be >= 0", group.Name)
		}
		if group.MaxSelection < 1 {
			return models.NewValidationError("options", "group %q: max_selection must be >= 1", group.Name)
		}
		if group.MinSelection > group.MaxSelection {
			return models.NewValidationError("options", "group %q: min_selection %d exceeds max_selection %d",
				group.Name, group.MinSelection, group.MaxSelection)
		}

		choiceIDs := make(map[string]bool, len(group.Choices))
		for _, choice := range group.Choices {
			if strings.TrimSpace(choice.Name) == "" {
				return models.NewValidationError("options", "group %q has a choice without a name", group.Name)
			}
			if choice.ExtraPrice < 0 {
				return models.NewValidationError("options", "choice %q: extra_price must be >= 0", choice.Name)
			}
			if choice.ID == "" {
				continue
			}
			if choiceIDs[choice.ID] {
				return models.NewValidationError("options", "group %q: duplicate choice id %q", group.Name, choice.ID)
			}
			choiceIDs[choice.ID] = true
		}
	}
	return nil
}

// NormalizeOptionGroups fills in ids the editor left blank and defaults an unset
// max_selection to a single choice.
func NormalizeOptionGroups(groups []models.OptionGroup) []models.OptionGroup {
	out := make([]models.OptionGroup, len(groups))
	for i, group := range groups {
		if group.ID == "" {
			group.ID = uuid.NewString()
		}
		if group.MaxSelection == 0 {
			group.MaxSelection = 1
		}
		choices := make([]models.OptionChoice, len(group.Choices))
		for j, choice := range group.Choices {
			if choice.ID == "" {
				choice.ID = uuid.NewString()
			}
			choices[j] = choice
		}
		group.Choices = choices
		out[i] = group
	}
	return out
}

// LinkedItemIDs returns the ids of every menu item referenced by a choice.
func LinkedItemIDs(groups []models.OptionGroup) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, group := range groups {
		for _, choice := range group.Choices {
			if choice.ItemID == nil || *choice.ItemID == "" || seen[*choice.ItemID] {
				continue
			}
			seen[*choice.ItemID] = true
			ids = append(ids, *choice.ItemID)
		}
	}
	return ids
}
