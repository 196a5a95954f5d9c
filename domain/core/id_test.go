package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestParseRunID tests run ID parsing
func TestParseRunID(t *testing.T) {
	tests := []struct {
		input    string
		expected RunID
		hasError bool
	}{
		{"run-123", RunID("run-123"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseRunID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestErrorClassification(t *testing.T) {
	if !IsNotFoundError(ErrOutputNotFound) {
		t.Error("Expected ErrOutputNotFound to classify as not found")
	}
	if !IsNotFoundError(ErrMetricNotFound) {
		t.Error("Expected ErrMetricNotFound to classify as not found")
	}
	if IsNotFoundError(ErrEmptySampleSet) {
		t.Error("Expected ErrEmptySampleSet to not classify as not found")
	}
	if !IsPreconditionError(ErrEmptySampleSet) {
		t.Error("Expected ErrEmptySampleSet to classify as precondition error")
	}
	if !IsPreconditionError(NewShapeError("row", 2, 3)) {
		t.Error("Expected shape errors to classify as precondition errors")
	}
}

func TestRowErrorKeepsCause(t *testing.T) {
	cause := NewParameterError("x_haz")
	err := NewRowError(7, cause)
	if !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("Expected row error to unwrap to the parameter error, got %v", err)
	}
	if err.Error() != "sample row 7: "+cause.Error() {
		t.Errorf("Unexpected row error message: %s", err.Error())
	}
}
