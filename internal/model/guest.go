package model

import "strings"

// MealChoice is the entrée a guest picked on the RSVP card.  The zero
// value means no choice was recorded.
type MealChoice string

const (
    MealNone    MealChoice = ""
    MealSteak   MealChoice = "Steak"
    MealChicken MealChoice = "Chicken"
    MealVeg     MealChoice = "Veg"
)

// ParseMealChoice maps free text from an import file onto a MealChoice.
// Matching is case-insensitive and ignores surrounding space.  Anything
// that is not one of the known entrées yields MealNone.
func ParseMealChoice(s string) MealChoice {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "steak":
        return MealSteak
    case "chicken":
        return MealChicken
    case "veg", "vegetarian":
        return MealVeg
    }
    return MealNone
}

// Icon returns the emoji shown next to a guest's name on the planning
// canvas and the kiosk display.
func (m MealChoice) Icon() string {
    switch m {
    case MealSteak:
        return "🥩"
    case MealChicken:
        return "🍗"
    case MealVeg:
        return "🥗"
    }
    return ""
}

// Guest is one invitee.  A guest sits either in exactly one table's
// Guests list or in the chart's UnassignedGuests, never both.  The table
// a guest belongs to is not stored on the guest; use SeatingChart.TableOf.
//
// Fields:
//  ID         – opaque unique identifier (UUID string).
//  Name       – full display name; not unique.
//  MealChoice – selected entrée, empty when unknown.
//  Notes      – free-form remarks (allergies, seating wishes).
type Guest struct {
    ID         string     `json:"id"`                   // unique across the whole chart
    Name       string     `json:"name"`                 // full name as imported
    MealChoice MealChoice `json:"mealChoice,omitempty"` // Steak | Chicken | Veg | ""
    Notes      string     `json:"notes,omitempty"`      // optional remarks
}
