package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawNumberDecimal(t *testing.T) {
	tests := []struct {
		name  string
		in    RawNumber
		want  string
		valid bool
	}{
		{"json number", NumberFromFloat(1500.5), "1500.5", true},
		{"integer", NumberFromInt(42), "42", true},
		{"numeric string", NumberFromString("2500"), "2500", true},
		{"leading spaces", NumberFromString("  12.75"), "12.75", true},
		{"trailing garbage", NumberFromString("300abc"), "300", true},
		{"exponent", NumberFromString("1e3"), "1000", true},
		{"garbage", NumberFromString("abc"), "0", false},
		{"empty string", NumberFromString(""), "0", false},
		{"infinity", NumberFromString("Infinity"), "0", false},
		{"exponent overflow", NumberFromString("1e400"), "0", false},
		{"negative exponent overflow", NumberFromString("-2.5e309"), "0", false},
		{"tiny exponent", NumberFromString("1e-400"), "1e-400", true},
		{"absent", RawNumber{}, "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.in.Decimal()
			assert.Equal(t, tt.valid, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestRawNumberInt(t *testing.T) {
	tests := []struct {
		name string
		in   RawNumber
		want int64
	}{
		{"string", NumberFromString("25"), 25},
		{"padded", NumberFromString(" 7"), 7},
		{"prefix", NumberFromString("3 tickets"), 3},
		{"fraction string", NumberFromString("2.9"), 2},
		{"fraction number", NumberFromFloat(2.9), 2},
		{"number", NumberFromInt(10), 10},
		{"negative", NumberFromString("-4"), 0},
		{"garbage", NumberFromString("many"), 0},
		{"absent", RawNumber{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Int())
		})
	}
}

func TestRawNumberJSON(t *testing.T) {
	var item LineItem
	require.NoError(t, json.Unmarshal([]byte(`{"ticket_id": 1, "quantity": "25"}`), &item))
	assert.Equal(t, "1", item.TicketID.Canonical())
	assert.True(t, item.Quantity.IsText())
	assert.Equal(t, int64(25), item.Quantity.Int())

	require.NoError(t, json.Unmarshal([]byte(`{"ticket_id": "2", "quantity": 3}`), &item))
	assert.Equal(t, "2", item.TicketID.Canonical())
	assert.False(t, item.Quantity.IsText())
	assert.Equal(t, int64(3), item.Quantity.Int())

	out, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ticket_id": "2", "quantity": 3}`, string(out))

	var missing LineItem
	require.NoError(t, json.Unmarshal([]byte(`{"ticket_id": 9}`), &missing))
	assert.False(t, missing.Quantity.IsPresent())
	assert.Equal(t, int64(0), missing.Quantity.Int())
}

func TestIDCanonical(t *testing.T) {
	assert.Equal(t, "6", ID("6").Canonical())
	assert.Equal(t, "6", ID(" 06 ").Canonical())
	assert.Equal(t, "6", ID("6.0").Canonical())
	assert.Equal(t, "abc-1", ID("abc-1").Canonical())
	assert.Equal(t, "13", IDFromInt(13).Canonical())
}

func TestLineItemsScan(t *testing.T) {
	var items LineItems
	require.NoError(t, items.Scan([]byte(`[{"ticket_id":1,"quantity":"2"},{"ticket_id":"3","quantity":null}]`)))
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].Quantity.Int())
	assert.Equal(t, int64(0), items[1].Quantity.Int())

	require.NoError(t, items.Scan(nil))
	assert.Nil(t, items)
}
