package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Rhymond/go-money"
	"github.com/stretchr/testify/assert"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

func TestFormatCNY(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		fen  int64
	}{
		{"whole yuan", 1000, 100000},
		{"rounds half up to the fen", 12.345, 1235},
		{"keeps fen", 0.1 + 0.2, 30},
		{"negative", -5.5, -550},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, money.New(tt.fen, money.CNY).Display(), formatCNY(tt.in))
		})
	}
}

func TestFormatOptionalCNY(t *testing.T) {
	assert.Equal(t, "-", formatOptionalCNY(nil))

	v := 42.0
	assert.Equal(t, formatCNY(42), formatOptionalCNY(&v))
}

func TestPrintAccount(t *testing.T) {
	value := 1100.0
	profit := 100.0
	detail := model.AccountDetail{
		Account: model.Account{ID: "acc-1", Name: "Main"},
		Holdings: []model.HoldingPosition{
			{FundCode: "000001", TotalAmount: 1000, TotalShares: 1000, EstimatedValue: &value, EstimatedProfit: &profit},
			{FundCode: "000002", TotalAmount: 500, TotalShares: 250},
		},
		TotalCost: 1500,
	}

	var buf bytes.Buffer
	assert.NoError(t, printAccount(&buf, detail))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Main (acc-1)\n"))
	assert.Contains(t, out, "000001")
	assert.Contains(t, out, formatCNY(1100))
	assert.Contains(t, out, "250.00")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	total := lines[len(lines)-1]
	assert.Contains(t, total, "total")
	assert.Contains(t, total, formatCNY(1500))
	assert.Contains(t, total, "-")
}
