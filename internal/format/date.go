package format

import (
	"fmt"
	"time"

	"github.com/billed-app/billed-portal/internal/entity"
)

// French short month names, indexed by time.Month.
var frenchMonths = [13]string{
	"",
	"janv.",
	"févr.",
	"mars",
	"avr.",
	"mai",
	"juin",
	"juil.",
	"août",
	"sept.",
	"oct.",
	"nov.",
	"déc.",
}

// statusLabels is the canonical display mapping for bill statuses.
// The mapping is total over entity's status set; unknown codes are an error.
var statusLabels = map[entity.Status]string{
	entity.StatusPending:  "En attente",
	entity.StatusAccepted: "Accepté",
	entity.StatusRefused:  "Refusé",
}

// FormatDate converts a stored ISO date (YYYY-MM-DD) into its display form,
// e.g. "2004-04-04" -> "4 Avr. 04": day without leading zero, capitalized
// three-letter French month abbreviation, two-digit year.
func FormatDate(isoDate string) (string, error) {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return "", fmt.Errorf("invalid bill date %q: %w", isoDate, err)
	}
	return fmt.Sprintf("%d %s. %02d", t.Day(), shortMonth(t.Month()), t.Year()%100), nil
}

// shortMonth returns the first three letters of the French month name with
// the first letter upper-cased ("avr." -> "Avr").
func shortMonth(m time.Month) string {
	name := []rune(frenchMonths[m])
	abbrev := name
	if len(name) > 3 {
		abbrev = name[:3]
	}
	out := make([]rune, len(abbrev))
	copy(out, abbrev)
	out[0] = toUpper(out[0])
	return string(out)
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	// é -> É and the like for the accented month initials
	switch r {
	case 'é':
		return 'É'
	case 'à':
		return 'À'
	}
	return r
}

// FormatStatus maps a status code to its display label. Unknown codes fail
// loudly rather than passing through.
func FormatStatus(s entity.Status) (string, error) {
	label, ok := statusLabels[s]
	if !ok {
		return "", fmt.Errorf("unknown bill status %q", s)
	}
	return label, nil
}
