package billslist

import (
	"fmt"
	"sort"
	"time"

	"github.com/billed-app/billed-portal/internal/entity"
	"github.com/billed-app/billed-portal/internal/format"
)

// Mode selects which of the three mutually exclusive views is rendered.
type Mode string

const (
	ModeLoading Mode = "loading"
	ModeError   Mode = "error"
	ModeData    Mode = "data"
)

// Input is the raw material of one render: exactly one of Loading, Err or
// the bill collection is considered. A non-nil Err selects the error mode
// regardless of its message, so the three modes never collapse into each
// other on an empty string.
type Input struct {
	Loading bool
	Err     error
	Bills   []entity.Bill
}

// Row is one bill decorated with its display strings.
type Row struct {
	entity.Bill
	FormattedDate   string
	FormattedStatus string

	sortKey   time.Time
	dateValid bool
}

// Model is the presentation-ready result.
type Model struct {
	Mode  Mode
	Error string
	Rows  []Row
}

// Present transforms the input into an ordered, formatted model.
//
// Data mode sorts rows antichronologically by the underlying ISO date, not
// the display string. Rows whose date does not parse keep the raw value as
// display text and sort after all valid dates; their relative order is
// unspecified. An unknown status is a hard error: the display mapping is
// total and must not silently pass codes through.
func Present(in Input) (Model, error) {
	if in.Loading {
		return Model{Mode: ModeLoading}, nil
	}
	if in.Err != nil {
		return Model{Mode: ModeError, Error: in.Err.Error()}, nil
	}

	rows := make([]Row, 0, len(in.Bills))
	for _, bill := range in.Bills {
		status, err := format.FormatStatus(bill.Status)
		if err != nil {
			return Model{}, fmt.Errorf("bill %s: %w", bill.ID, err)
		}

		row := Row{Bill: bill, FormattedStatus: status}
		if formatted, err := format.FormatDate(bill.Date); err == nil {
			row.FormattedDate = formatted
			row.sortKey, _ = time.Parse("2006-01-02", bill.Date)
			row.dateValid = true
		} else {
			// Defensive pass-through: display the raw value unchanged.
			row.FormattedDate = bill.Date
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].dateValid != rows[j].dateValid {
			return rows[i].dateValid
		}
		if !rows[i].dateValid {
			return false
		}
		return rows[i].sortKey.After(rows[j].sortKey)
	})

	return Model{Mode: ModeData, Rows: rows}, nil
}
