package query

import (
	"fmt"
	"strconv"
	"strings"
)

// SummaryType is a set of summary calculations. Values are bit flags and may
// be combined with |.
type SummaryType int

const (
	SummaryNone         SummaryType = 0
	SummaryTotal        SummaryType = 1
	SummaryAverage      SummaryType = 2
	SummaryMinimum      SummaryType = 4
	SummaryMaximum      SummaryType = 8
	SummaryRange        SummaryType = 16
	SummaryStdDev       SummaryType = 32
	SummaryPopStdDev    SummaryType = 64
	SummaryCount        SummaryType = 128
	SummaryPercentGood  SummaryType = 8192
	SummaryTotalWithUOM SummaryType = 16384

	// SummaryAll requests every summary type.
	SummaryAll SummaryType = 24831
	// SummaryAllForNonNumeric requests the summaries that make sense for
	// digital or string data: count and percent good.
	SummaryAllForNonNumeric SummaryType = 8320
)

// summaryFlags lists the single flags in ascending order.
var summaryFlags = []SummaryType{
	SummaryTotal,
	SummaryAverage,
	SummaryMinimum,
	SummaryMaximum,
	SummaryRange,
	SummaryStdDev,
	SummaryPopStdDev,
	SummaryCount,
	SummaryPercentGood,
	SummaryTotalWithUOM,
}

var summaryNames = map[SummaryType]string{
	SummaryNone:             "NONE",
	SummaryTotal:            "TOTAL",
	SummaryAverage:          "AVERAGE",
	SummaryMinimum:          "MINIMUM",
	SummaryMaximum:          "MAXIMUM",
	SummaryRange:            "RANGE",
	SummaryStdDev:           "STD_DEV",
	SummaryPopStdDev:        "POP_STD_DEV",
	SummaryCount:            "COUNT",
	SummaryPercentGood:      "PERCENT_GOOD",
	SummaryTotalWithUOM:     "TOTAL_WITH_UOM",
	SummaryAll:              "ALL",
	SummaryAllForNonNumeric: "ALL_FOR_NON_NUMERIC",
}

// String returns the flag name, or the names of the contained flags joined
// by "|" for a combination.
func (s SummaryType) String() string {
	if n, ok := summaryNames[s]; ok {
		return n
	}
	flags := s.Flags()
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = summaryNames[f]
	}
	if rest := s &^ SummaryAll; rest != 0 {
		names = append(names, strconv.Itoa(int(rest)))
	}
	return strings.Join(names, "|")
}

// Flags splits s into its single flags in ascending order.
func (s SummaryType) Flags() []SummaryType {
	var out []SummaryType
	for _, f := range summaryFlags {
		if s&f != 0 {
			out = append(out, f)
		}
	}
	return out
}

// Has reports whether every flag of other is set in s.
func (s SummaryType) Has(other SummaryType) bool {
	return other != 0 && s&other == other
}

// Validate rejects empty sets and unknown bits.
func (s SummaryType) Validate() error {
	if s == SummaryNone {
		return fmt.Errorf("%w: summary type must request at least one of %s", ErrInvalidParameter, validSummaryNames())
	}
	if rest := s &^ SummaryAll; rest != 0 {
		return fmt.Errorf("%w: summary type %d has unknown bits %d; valid flags are %s",
			ErrInvalidParameter, int(s), int(rest), validSummaryNames())
	}
	return nil
}

// ParseSummaryType parses names joined by "|" or ",", e.g. "average|maximum".
func ParseSummaryType(s string) (SummaryType, error) {
	var out SummaryType
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		key := normalize(part)
		found := false
		for v, name := range summaryNames {
			if v != SummaryNone && normalize(name) == key {
				out |= v
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: summary type %q is not one of %s", ErrInvalidParameter, strings.TrimSpace(part), validSummaryNames())
		}
	}
	if err := out.Validate(); err != nil {
		return 0, err
	}
	return out, nil
}

func validSummaryNames() string {
	names := make([]string, 0, len(summaryFlags)+2)
	for _, f := range summaryFlags {
		names = append(names, summaryNames[f])
	}
	names = append(names, summaryNames[SummaryAll], summaryNames[SummaryAllForNonNumeric])
	return strings.Join(names, ", ")
}
