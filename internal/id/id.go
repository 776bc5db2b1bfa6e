package id

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefix starts every journal entry ID.
const Prefix = "JE-"

// FormatEntryID returns an entry ID like "JE-2025-01-001".
func FormatEntryID(year, month, seq int) string {
	return fmt.Sprintf("%s%04d-%02d-%03d", Prefix, year, month, seq)
}

// ParseEntryID parses "JE-2025-01-001" into year, month, seq.
func ParseEntryID(id string) (year, month, seq int, err error) {
	base, ok := strings.CutPrefix(id, Prefix)
	if !ok {
		return 0, 0, 0, fmt.Errorf("invalid entry ID prefix: %q", id)
	}

	parts := strings.SplitN(base, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid entry ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in entry ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in entry ID %q: %w", id, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("month %d out of range in entry ID %q", month, id)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in entry ID %q: %w", id, err)
	}

	return year, month, seq, nil
}

// NextSeq returns the next sequence number for year/month given existing IDs.
// IDs that do not parse, or belong to another month, are ignored.
func NextSeq(ids []string, year, month int) int {
	maxSeq := 0
	for _, s := range ids {
		y, m, seq, err := ParseEntryID(s)
		if err != nil || y != year || m != month {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}
