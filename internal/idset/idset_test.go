package idset

import (
	"path/filepath"
	"testing"
)

func TestMapSet(t *testing.T) {
	s := NewMapSet(0)
	s.Insert(7)
	s.Insert(9)
	if !s.Has(7) || !s.Has(9) {
		t.Error("expected inserted ids to be present")
	}
	if s.Has(8) {
		t.Error("expected uninserted id to be absent")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	s.Insert(7)
	if s.Len() != 2 {
		t.Errorf("re-inserting an existing id should not grow Len(), got %d", s.Len())
	}
}

func TestBitsetSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.bitset")
	bs, err := NewBitsetSet(path, 1000)
	if err != nil {
		t.Fatalf("NewBitsetSet: %v", err)
	}
	defer bs.Close()

	bs.Insert(5)
	bs.Insert(999)
	if !bs.Has(5) || !bs.Has(999) {
		t.Error("expected inserted ids to be present")
	}
	if bs.Has(6) {
		t.Error("expected uninserted id to be absent")
	}
	if bs.Len() != 2 {
		t.Errorf("Len() = %d, want 2", bs.Len())
	}
	if bs.Has(1001) {
		t.Error("expected an id above maxID to be absent, not panic")
	}
}

func TestNewBitsetSetRejectsIDAboveBound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.bitset")
	if _, err := NewBitsetSet(path, MaxBitsetID+1); err == nil {
		t.Error("expected an error for maxID above MaxBitsetID")
	}
}
