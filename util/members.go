package util

import (
	"slices"
	"time"
)

type (
	MemberEntry struct {
		Name     string    `json:"name" yaml:"name"`         // slash-separated path inside the archive
		Size     int64     `json:"size" yaml:"size"`         // uncompressed size in bytes
		Modified time.Time `json:"modified" yaml:"modified"` // modification time stored in the header
	}
	// MemberTable lists the members written to one archive, in write order.
	MemberTable struct {
		entries []MemberEntry
	}
)

func (t MemberTable) Iterate(yield func(MemberEntry) bool) {
	for _, entry := range t.entries {
		if !yield(entry) {
			return
		}
	}
}

func (t *MemberTable) Add(e MemberEntry) {
	t.entries = append(t.entries, e)
}

// Names returns the member names in write order.
func (t MemberTable) Names() []string {
	names := make([]string, 0, len(t.entries))
	for e := range t.Iterate {
		names = append(names, e.Name)
	}
	return names
}

func (t MemberTable) Len() int {
	return len(t.entries)
}

// GetOldestFileTS returns the earliest member modification time.
func (t MemberTable) GetOldestFileTS() time.Time {
	if t.Len() == 0 {
		return time.Time{}
	}
	return slices.MinFunc(t.entries, compareModified).Modified
}

// Does the opposite of GetOldestFileTS
func (t MemberTable) GetNewestFileTS() time.Time {
	if t.Len() == 0 {
		return time.Time{}
	}
	return slices.MaxFunc(t.entries, compareModified).Modified
}

func (t MemberTable) GetUncompressedSize() int64 {
	var total int64
	for e := range t.Iterate {
		total += e.Size
	}
	return total
}

func compareModified(a, b MemberEntry) int {
	return a.Modified.Compare(b.Modified)
}
