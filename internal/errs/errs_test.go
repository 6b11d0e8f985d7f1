package errs

import (
	"errors"
	"testing"
)

func TestPermanentSurvivesWrapping(t *testing.T) {
	base := errors.New("comment 7 not found")
	err := Wrap(Permanent(base), "run job acceptComments")

	if !IsPermanent(err) {
		t.Fatalf("IsPermanent() = false, want true")
	}
	if !errors.Is(err, base) {
		t.Fatalf("errors.Is(err, base) = false")
	}
	if IsPermanent(Wrap(base, "transient")) {
		t.Fatalf("IsPermanent() on unmarked error = true")
	}
}

func TestPermanentNilAndIdempotent(t *testing.T) {
	if Permanent(nil) != nil {
		t.Fatalf("Permanent(nil) != nil")
	}

	once := Permanent(errors.New("boom"))
	if twice := Permanent(once); twice != once {
		t.Fatalf("Permanent() re-wrapped an already permanent error")
	}
}

func TestErrorChainStrings(t *testing.T) {
	err := Wrapf(errors.New("inner"), "outer %d", 1)
	chain := ErrorChainStrings(err)
	if len(chain) != 2 {
		t.Fatalf("ErrorChainStrings() len = %d, want 2", len(chain))
	}
	if chain[1] != "inner" {
		t.Fatalf("ErrorChainStrings()[1] = %q", chain[1])
	}
}
