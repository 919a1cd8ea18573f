package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Layouts for the calendar fields of a dose entry, in time.Parse reference
// form. Entries carry no year; the decay package infers it at estimation
// time.
const (
	DoseDateLayout = "01/02" // MM/DD
	DoseTimeLayout = "15:04" // HH:MM, 24-hour clock
)

// Common validation errors for DoseEntry
var (
	ErrEmptyDoseID     = errors.New("dose ID cannot be empty")
	ErrEmptyDoseUserID = errors.New("dose user ID cannot be empty")
	ErrInvalidDoseDate = errors.New("dose date must be a valid MM/DD calendar day")
	ErrInvalidDoseTime = errors.New("dose time must be a valid HH:MM time of day")
)

// DoseEntry represents one logged caffeine intake event. The date and time
// fields preserve the user's wall-clock input exactly as entered; an absolute
// timestamp is derived from them only at estimation time.
type DoseEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	DoseDate  string    `json:"dose_date"`
	DoseTime  string    `json:"dose_time"`
	AmountMg  float64   `json:"amount_mg"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDoseEntry creates a new DoseEntry owned by the given user.
// It generates a new UUID for the entry ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewDoseEntry(userID uuid.UUID, doseDate, doseTime string, amountMg float64) (*DoseEntry, error) {
	dose := &DoseEntry{
		ID:        uuid.New(),
		UserID:    userID,
		DoseDate:  doseDate,
		DoseTime:  doseTime,
		AmountMg:  amountMg,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := dose.Validate(); err != nil {
		return nil, err
	}

	return dose, nil
}

// Validate checks if the DoseEntry has valid data.
// Returns an error if any field fails validation.
//
// The amount is deliberately not range-checked here: the decay model
// processes zero and negative amounts arithmetically, and positive amounts
// are enforced on incoming requests at the API boundary.
func (d *DoseEntry) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyDoseID
	}

	if d.UserID == uuid.Nil {
		return ErrEmptyDoseUserID
	}

	if _, err := time.Parse(DoseDateLayout, d.DoseDate); err != nil {
		return ErrInvalidDoseDate
	}

	if _, err := time.Parse(DoseTimeLayout, d.DoseTime); err != nil {
		return ErrInvalidDoseTime
	}

	return nil
}
