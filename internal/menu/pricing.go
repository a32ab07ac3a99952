// Package menu holds the option-group rules of composite menu items: which
// selections are acceptable, what they cost and how they are snapshotted onto
// an order line.
package menu

import (
	"soufra_admin/internal/models"
)

// Selections maps an option group id to the ids of the choices picked in it.
type Selections map[string][]string

// Single builds a selection with exactly one choice per group.
func Single(pairs map[string]string) Selections {
	sel := make(Selections, len(pairs))
	for groupID, choiceID := range pairs {
		sel[groupID] = []string{choiceID}
	}
	return sel
}

// Price returns the unit price of item with the given selections applied:
// the base price plus the extra price of every selected choice. Choices that do
// not exist in their group contribute nothing.
func Price(item models.MenuItem, sel Selections) float64 {
	price := item.Price
	for _, group := range item.Options {
		for _, choiceID := range sel[group.ID] {
			if choice, ok := group.Choice(choiceID); ok {
				price += choice.ExtraPrice
			}
		}
	}
	return price
}

// Validate checks sel against the option groups of item before it may be added
// to an order.
func Validate(item models.MenuItem, sel Selections) error {
	known := make(map[string]bool, len(item.Options))
	var missing []string

	for _, group := range item.Options {
		known[group.ID] = true
		chosen := sel[group.ID]

		if len(chosen) < group.MinSelection {
			missing = append(missing, group.Name)
			continue
		}
		if len(chosen) > group.MaxSelection {
			return models.NewValidationError("selections", "group %q allows at most %d choice(s), got %d",
				group.Name, group.MaxSelection, len(chosen))
		}

		seen := make(map[string]bool, len(chosen))
		for _, choiceID := range chosen {
			if seen[choiceID] {
				return models.NewValidationError("selections", "choice %q selected twice in group %q", choiceID, group.Name)
			}
			seen[choiceID] = true

			choice, ok := group.Choice(choiceID)
			if !ok {
				return models.NewValidationError("selections", "unknown choice %q in group %q", choiceID, group.Name)
			}
			if !choice.IsAvailable {
				return models.NewValidationError("selections", "choice %q is not available", choice.Name)
			}
		}
	}

	if len(missing) > 0 {
		return &models.MissingRequiredOptionError{Groups: missing}
	}

	for groupID, chosen := range sel {
		if !known[groupID] && len(chosen) > 0 {
			return models.NewValidationError("selections", "unknown option group %q", groupID)
		}
	}
	return nil
}

// BuildSelectedOptions flattens sel into the snapshot stored on an order item,
// in the order the groups appear on the item. Unselected groups emit nothing.
func BuildSelectedOptions(item models.MenuItem, sel Selections) []models.SelectedOption {
	options := make([]models.SelectedOption, 0, len(sel))
	for _, group := range item.Options {
		for _, choiceID := range sel[group.ID] {
			choice, ok := group.Choice(choiceID)
			if !ok {
				continue
			}
			options = append(options, models.SelectedOption{
				GroupName:  group.Name,
				Name:       choice.Name,
				ChoiceName: choice.Name,
				Price:      choice.ExtraPrice,
				ItemID:     choice.ItemID,
			})
		}
	}
	return options
}
