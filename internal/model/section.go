package model

import "strings"

// Section identifies a fixed grouping of contiguous seats in the
// coach.  The values match the wire representation used by the API
// (`SECTION_A`, `SECTION_B`); they are stored verbatim in the
// `users.section` column.
type Section string

const (
    SectionA Section = "SECTION_A" // seats 1-5
    SectionB Section = "SECTION_B" // seats 6-10
)

// ParseSection converts a path or query value into a Section.  Both
// the full form ("SECTION_A") and the short form ("A") are accepted,
// case-insensitively.  The boolean reports whether the input named a
// known section.
func ParseSection(s string) (Section, bool) {
    switch strings.ToUpper(strings.TrimSpace(s)) {
    case "SECTION_A", "A":
        return SectionA, true
    case "SECTION_B", "B":
        return SectionB, true
    }
    return "", false
}
