package paging

import (
	"errors"
	"testing"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 1, false},
		{"  ", 1, false},
		{"1", 1, false},
		{"7", 7, false},
		{"0", 0, true},
		{"-2", 0, true},
		{"abc", 0, true},
		{"1.5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePage(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePage(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParsePage(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct{ total, want int }{
		{0, 0}, {1, 1}, {39, 1}, {40, 1}, {41, 2}, {80, 2}, {81, 3},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, PageSize); got != tt.want {
			t.Errorf("TotalPages(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestCompute_EmptyListingPageOne(t *testing.T) {
	w, err := Compute(0, 1)
	if err != nil {
		t.Fatalf("page 1 of an empty listing should be valid: %v", err)
	}
	if w.ShowStart != 0 || w.ShowEnd != 0 {
		t.Errorf("ShowStart/ShowEnd = %d/%d, want 0/0", w.ShowStart, w.ShowEnd)
	}
	if w.Limit != 0 || w.TotalPages != 0 {
		t.Errorf("Limit=%d TotalPages=%d, want 0/0", w.Limit, w.TotalPages)
	}
	if w.HasNext || w.HasPrev {
		t.Error("empty listing should have no prev/next")
	}
}

func TestCompute_EmptyListingPageTwo(t *testing.T) {
	if _, err := Compute(0, 2); !errors.Is(err, ErrNoSuchPage) {
		t.Errorf("expected ErrNoSuchPage, got %v", err)
	}
}

func TestCompute_LastPageRemainder(t *testing.T) {
	// 95 jobs → 3 pages, last page holds 95 mod 40 = 15.
	w, err := Compute(95, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", w.TotalPages)
	}
	if w.Skip != 80 || w.Limit != 15 {
		t.Errorf("Skip/Limit = %d/%d, want 80/15", w.Skip, w.Limit)
	}
	if w.ShowStart != 81 || w.ShowEnd != 95 {
		t.Errorf("ShowStart/ShowEnd = %d/%d, want 81/95", w.ShowStart, w.ShowEnd)
	}
	if !w.HasPrev || w.HasNext {
		t.Errorf("HasPrev/HasNext = %v/%v, want true/false", w.HasPrev, w.HasNext)
	}
}

func TestCompute_LastPageExact(t *testing.T) {
	w, err := Compute(80, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Limit != 40 {
		t.Errorf("Limit = %d, want 40 for an exact multiple", w.Limit)
	}
}

func TestCompute_BeyondLastPage(t *testing.T) {
	if _, err := Compute(95, 4); !errors.Is(err, ErrNoSuchPage) {
		t.Errorf("expected ErrNoSuchPage, got %v", err)
	}
}

func TestCompute_FirstPageClampsShowEnd(t *testing.T) {
	w, err := Compute(12, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ShowStart != 1 || w.ShowEnd != 12 {
		t.Errorf("ShowStart/ShowEnd = %d/%d, want 1/12", w.ShowStart, w.ShowEnd)
	}
}
