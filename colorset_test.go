package hcs

import (
	"errors"
	"testing"
)

func TestColorSetValidateAscending(t *testing.T) {
	cs := ColorSet{0, 2, 5, 9}
	if err := cs.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestColorSetValidateEmpty(t *testing.T) {
	var cs ColorSet
	if err := cs.Validate(); err != nil {
		t.Fatalf("Validate on empty set: %v", err)
	}
}

func TestColorSetValidateRejectsEqual(t *testing.T) {
	cs := ColorSet{3, 3}
	if err := cs.Validate(); !errors.Is(err, ErrNonAscending) {
		t.Fatalf("Validate: got %v, want ErrNonAscending", err)
	}
}

func TestColorSetValidateRejectsDescending(t *testing.T) {
	cs := ColorSet{5, 2}
	if err := cs.Validate(); !errors.Is(err, ErrNonAscending) {
		t.Fatalf("Validate: got %v, want ErrNonAscending", err)
	}
}

func TestColorSetMax(t *testing.T) {
	cs := ColorSet{1, 4, 9}
	if got := cs.max(); got != 9 {
		t.Fatalf("max: got %d, want 9", got)
	}
	var empty ColorSet
	if got := empty.max(); got != 0 {
		t.Fatalf("max on empty set: got %d, want 0", got)
	}
}
