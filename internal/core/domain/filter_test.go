package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestFilterState_IdempotentToggle(t *testing.T) {
	f := NewFilterState()

	for i := 0; i < 2; i++ {
		if err := f.Toggle(DimensionAuthor, "Doe, Jane", true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := f.Selected(DimensionAuthor); !reflect.DeepEqual(got, []string{"Doe, Jane"}) {
		t.Errorf("expected single selection, got %v", got)
	}

	_ = f.Toggle(DimensionAuthor, "Doe, Jane", false)
	if got := f.Selected(DimensionAuthor); len(got) != 0 {
		t.Errorf("expected empty selection, got %v", got)
	}

	// removing an absent value is a no-op
	if err := f.Toggle(DimensionSubject, "x", false); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFilterState_UnknownDimension(t *testing.T) {
	var f FilterState
	if err := f.Toggle(Dimension("publisher"), "x", true); !errors.Is(err, ErrUnknownDimension) {
		t.Errorf("expected ErrUnknownDimension, got %v", err)
	}
}

func TestFilterState_ZeroValue(t *testing.T) {
	var f FilterState
	if err := f.Toggle(DimensionItemType, "Article", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.IsSelected(DimensionItemType, "Article") {
		t.Error("expected Article selected")
	}
}

func TestFilterState_HasFileCopies(t *testing.T) {
	f := NewFilterState()
	v := false
	f.SetHasFile(&v)
	v = true

	got := f.HasFile()
	if got == nil || *got {
		t.Fatalf("expected stored false, got %v", got)
	}
	*got = true
	if *f.HasFile() {
		t.Error("HasFile must return a copy")
	}

	f.SetHasFile(nil)
	if f.HasFile() != nil {
		t.Error("expected constraint cleared")
	}
}

func TestFilterState_ResetKeepsTerm(t *testing.T) {
	f := NewFilterState()
	yes := true
	_ = f.Toggle(DimensionSubject, "Geology", true)
	f.SetHasFile(&yes)
	f.SetQueryTerm("erosion")

	f.Reset()

	if len(f.Selected(DimensionSubject)) != 0 || f.HasFile() != nil {
		t.Error("expected selections cleared")
	}
	if f.QueryTerm() != "erosion" {
		t.Errorf("expected term kept, got %q", f.QueryTerm())
	}
}

func TestFilterState_CloneIsIndependent(t *testing.T) {
	f := NewFilterState()
	_ = f.Toggle(DimensionAuthor, "A", true)

	c := f.Clone()
	_ = c.Toggle(DimensionAuthor, "B", true)

	if f.IsSelected(DimensionAuthor, "B") {
		t.Error("clone shares selection sets with original")
	}
}

func TestFilterState_IsSelectedOnNil(t *testing.T) {
	var f *FilterState
	if f.IsSelected(DimensionAuthor, "A") {
		t.Error("nil filter state selects nothing")
	}
}

func TestFilterState_Snapshot(t *testing.T) {
	f := NewFilterState()
	_ = f.Toggle(DimensionDateRange, "2000-2009", true)
	_ = f.Toggle(DimensionDateRange, "1990-1999", true)
	f.SetQueryTerm("coast")

	snap := f.Snapshot()
	if !reflect.DeepEqual(snap.DateRange, []string{"1990-1999", "2000-2009"}) {
		t.Errorf("unexpected date ranges %v", snap.DateRange)
	}
	if snap.QueryTerm != "coast" {
		t.Errorf("unexpected term %q", snap.QueryTerm)
	}
}
