package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewDoseEntry(t *testing.T) {
	userID := uuid.New()

	dose, err := NewDoseEntry(userID, "03/10", "08:00", 100)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if dose.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if dose.UserID != userID {
		t.Errorf("Expected user ID %v, got %v", userID, dose.UserID)
	}

	if dose.DoseDate != "03/10" {
		t.Errorf("Expected dose date 03/10, got %s", dose.DoseDate)
	}

	if dose.DoseTime != "08:00" {
		t.Errorf("Expected dose time 08:00, got %s", dose.DoseTime)
	}

	if dose.AmountMg != 100 {
		t.Errorf("Expected amount 100, got %f", dose.AmountMg)
	}

	if dose.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if dose.UpdatedAt.IsZero() {
		t.Error("Expected non-zero UpdatedAt time")
	}

	// Test missing user
	_, err = NewDoseEntry(uuid.Nil, "03/10", "08:00", 100)
	if err != ErrEmptyDoseUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyDoseUserID, err)
	}
}

func TestDoseEntryValidate(t *testing.T) {
	validDose := DoseEntry{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		DoseDate: "12/31",
		DoseTime: "23:59",
		AmountMg: 80,
	}

	if err := validDose.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidDose := validDose
	invalidDose.ID = uuid.Nil
	if err := invalidDose.Validate(); err != ErrEmptyDoseID {
		t.Errorf("Expected error %v, got %v", ErrEmptyDoseID, err)
	}

	invalidDose = validDose
	invalidDose.UserID = uuid.Nil
	if err := invalidDose.Validate(); err != ErrEmptyDoseUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyDoseUserID, err)
	}

	// Dates that do not name a real calendar day
	for _, date := range []string{"", "13/01", "02/30", "0310", "March 10"} {
		invalidDose = validDose
		invalidDose.DoseDate = date
		if err := invalidDose.Validate(); err != ErrInvalidDoseDate {
			t.Errorf("DoseDate %q: expected error %v, got %v", date, ErrInvalidDoseDate, err)
		}
	}

	// Times outside the 24-hour clock
	for _, tod := range []string{"", "24:00", "12:60", "8am"} {
		invalidDose = validDose
		invalidDose.DoseTime = tod
		if err := invalidDose.Validate(); err != ErrInvalidDoseTime {
			t.Errorf("DoseTime %q: expected error %v, got %v", tod, ErrInvalidDoseTime, err)
		}
	}

	// Zero and negative amounts are valid at the entity level
	zeroDose := validDose
	zeroDose.AmountMg = 0
	if err := zeroDose.Validate(); err != nil {
		t.Errorf("Expected no error for zero amount, got %v", err)
	}

	negativeDose := validDose
	negativeDose.AmountMg = -10
	if err := negativeDose.Validate(); err != nil {
		t.Errorf("Expected no error for negative amount, got %v", err)
	}
}
