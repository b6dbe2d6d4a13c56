package util

import (
	"slices"
	"testing"
	"time"
)

func sampleTable() *MemberTable {
	mt := &MemberTable{}
	mt.Add(MemberEntry{Name: "c.txt", Size: 30, Modified: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
	mt.Add(MemberEntry{Name: "a.txt", Size: 10, Modified: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	mt.Add(MemberEntry{Name: "b.txt", Size: 20, Modified: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)})
	return mt
}

func TestMemberTable_Names(t *testing.T) {
	mt := sampleTable()
	if got := mt.Names(); !slices.Equal(got, []string{"c.txt", "a.txt", "b.txt"}) {
		t.Errorf("Names = %v, want write order", got)
	}
	if mt.Len() != 3 {
		t.Errorf("Len = %d, want 3", mt.Len())
	}
}

func TestMemberTable_Aggregates(t *testing.T) {
	mt := sampleTable()
	if got := mt.GetOldestFileTS(); !got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("GetOldestFileTS = %v", got)
	}
	if got := mt.GetNewestFileTS(); !got.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("GetNewestFileTS = %v", got)
	}
	if got := mt.GetUncompressedSize(); got != 60 {
		t.Errorf("GetUncompressedSize = %d, want 60", got)
	}

	var empty MemberTable
	if !empty.GetOldestFileTS().IsZero() || !empty.GetNewestFileTS().IsZero() {
		t.Error("Empty table should report zero timestamps")
	}
	if empty.GetUncompressedSize() != 0 {
		t.Error("Empty table should report zero size")
	}
}

func TestMemberTable_IterateStopsEarly(t *testing.T) {
	mt := sampleTable()
	var seen []string
	for e := range mt.Iterate {
		seen = append(seen, e.Name)
		if len(seen) == 2 {
			break
		}
	}
	if len(seen) != 2 {
		t.Errorf("Expected iteration to stop after 2 entries, saw %v", seen)
	}
}
