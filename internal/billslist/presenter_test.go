package billslist

import (
	"errors"
	"testing"

	"github.com/billed-app/billed-portal/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billOn(date string) entity.Bill {
	return entity.Bill{
		ID:     "bill-" + date,
		Email:  "employee@test.com",
		Type:   "Transports",
		Date:   date,
		Status: entity.StatusPending,
	}
}

func TestPresent_LoadingModeIgnoresRecords(t *testing.T) {
	model, err := Present(Input{
		Loading: true,
		Bills:   []entity.Bill{billOn("2021-06-07")},
	})

	require.NoError(t, err)
	assert.Equal(t, ModeLoading, model.Mode)
	assert.Empty(t, model.Rows)
}

func TestPresent_ErrorModeIgnoresRecords(t *testing.T) {
	model, err := Present(Input{
		Err:   errors.New("ErrorMessage"),
		Bills: []entity.Bill{billOn("2021-06-07")},
	})

	require.NoError(t, err)
	assert.Equal(t, ModeError, model.Mode)
	assert.Equal(t, "ErrorMessage", model.Error)
	assert.Empty(t, model.Rows)
}

func TestPresent_ErrorModeWithEmptyMessage(t *testing.T) {
	model, err := Present(Input{
		Err:   errors.New(""),
		Bills: []entity.Bill{billOn("2021-06-07")},
	})

	require.NoError(t, err)
	assert.Equal(t, ModeError, model.Mode)
	assert.Empty(t, model.Rows)
}

func TestPresent_SortsAntichronologically(t *testing.T) {
	inputs := [][]string{
		{"2002-02-02", "2021-06-07", "2004-04-04"},
		{"2021-06-07", "2004-04-04", "2002-02-02"},
		{"2004-04-04", "2002-02-02", "2021-06-07"},
	}

	for _, dates := range inputs {
		bills := make([]entity.Bill, 0, len(dates))
		for _, d := range dates {
			bills = append(bills, billOn(d))
		}

		model, err := Present(Input{Bills: bills})
		require.NoError(t, err)
		require.Len(t, model.Rows, 3)

		got := []string{model.Rows[0].Date, model.Rows[1].Date, model.Rows[2].Date}
		assert.Equal(t, []string{"2021-06-07", "2004-04-04", "2002-02-02"}, got,
			"input order %v", dates)
	}
}

func TestPresent_FormatsDateAndStatus(t *testing.T) {
	bill := billOn("2004-04-04")
	bill.Status = entity.StatusAccepted

	model, err := Present(Input{Bills: []entity.Bill{bill}})
	require.NoError(t, err)
	require.Len(t, model.Rows, 1)

	assert.Equal(t, "4 Avr. 04", model.Rows[0].FormattedDate)
	assert.Equal(t, "Accepté", model.Rows[0].FormattedStatus)
	// Original fields survive alongside the display strings.
	assert.Equal(t, "2004-04-04", model.Rows[0].Date)
	assert.Equal(t, "Transports", model.Rows[0].Type)
}

func TestPresent_UnparsableDatePassesThrough(t *testing.T) {
	model, err := Present(Input{Bills: []entity.Bill{
		billOn("2021-06-07"),
		billOn("not-a-date"),
		billOn("2002-02-02"),
	}})
	require.NoError(t, err)
	require.Len(t, model.Rows, 3)

	// Valid dates keep the strict antichronological guarantee; the broken
	// one is displayed raw and lands after them.
	assert.Equal(t, "2021-06-07", model.Rows[0].Date)
	assert.Equal(t, "2002-02-02", model.Rows[1].Date)
	assert.Equal(t, "not-a-date", model.Rows[2].Date)
	assert.Equal(t, "not-a-date", model.Rows[2].FormattedDate)
}

func TestPresent_UnknownStatusFailsLoudly(t *testing.T) {
	bill := billOn("2021-06-07")
	bill.Status = entity.Status("archived")

	_, err := Present(Input{Bills: []entity.Bill{bill}})
	assert.Error(t, err)
}

func TestView_Modes(t *testing.T) {
	loading, err := View(Input{Loading: true, Bills: []entity.Bill{billOn("2021-06-07")}})
	require.NoError(t, err)
	assert.Equal(t, LoadingView(), loading)

	errView, err := View(Input{Err: errors.New("ErrorMessage")})
	require.NoError(t, err)
	assert.Equal(t, ErrorView("ErrorMessage"), errView)
	assert.Contains(t, errView, "ErrorMessage")

	list, err := View(Input{Bills: []entity.Bill{billOn("2004-04-04")}})
	require.NoError(t, err)
	assert.Contains(t, list, "4 Avr. 04")
	assert.Contains(t, list, "En attente")
}

func TestReceiptModal_HalfContainerWidth(t *testing.T) {
	modal := ReceiptModal("https://test.storage.tld/receipt-1.jpg", 800)
	assert.Contains(t, modal, `width="400"`)
	assert.Contains(t, modal, `src="https://test.storage.tld/receipt-1.jpg"`)
	assert.Contains(t, modal, `alt="Bill"`)
}
