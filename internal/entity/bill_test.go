package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusAccepted.IsValid())
	assert.True(t, StatusRefused.IsValid())
	assert.False(t, Status("archived").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestAllowedReceiptFile(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		allowed  bool
	}{
		{"jpg", "receipt.jpg", true},
		{"jpeg", "receipt.jpeg", true},
		{"png", "receipt.png", true},
		{"uppercase JPG", "RECEIPT.JPG", true},
		{"mixed case Png", "scan.Png", true},
		{"pdf", "receipt.pdf", false},
		{"gif", "receipt.gif", false},
		{"double extension ending in txt", "receipt.png.txt", false},
		{"no extension", "receipt", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, AllowedReceiptFile(tt.fileName))
		})
	}
}

func TestBill_JSONShape(t *testing.T) {
	fileURL := "https://www.test.test"
	fileName := "test.test"
	bill := Bill{
		Email:      "employee@test.com",
		Type:       "Transports",
		Name:       "test bill",
		Amount:     100,
		Date:       "2021-06-07",
		VAT:        "",
		Pct:        20,
		Commentary: "test commentary",
		FileURL:    &fileURL,
		FileName:   &fileName,
		Status:     StatusPending,
	}

	raw, err := json.Marshal(bill)
	assert.NoError(t, err)

	var got map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, float64(100), got["amount"])
	assert.Equal(t, float64(20), got["pct"])
	assert.Equal(t, "pending", got["status"])
	assert.Equal(t, "https://www.test.test", got["fileUrl"])
	assert.Equal(t, "test.test", got["fileName"])
}

func TestBill_JSONNullFileSentinel(t *testing.T) {
	raw, err := json.Marshal(Bill{Status: StatusPending})
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `"fileUrl":null`)
	assert.Contains(t, string(raw), `"fileName":null`)
}
