package models_test

import (
	"encoding/json"
	"testing"

	"recipeapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Price
		wantErr error
	}{
		{in: "5", want: 500},
		{in: "5.00", want: 500},
		{in: "5.5", want: 550},
		{in: "999.99", want: 99999},
		{in: "0.01", want: 1},
		{in: "007.25", want: 725},
		{in: ".5", want: 50},
		{in: "-3.25", want: -325},
		{in: "1000", wantErr: models.ErrPriceTooManyWhole},
		{in: "1000.00", wantErr: models.ErrPriceTooManyDigits},
		{in: "1.234", wantErr: models.ErrPriceTooManyPlaces},
		{in: "12.3456", wantErr: models.ErrPriceTooManyDigits},
		{in: "", wantErr: models.ErrPriceInvalid},
		{in: "abc", wantErr: models.ErrPriceInvalid},
		{in: "1.2.3", wantErr: models.ErrPriceInvalid},
		{in: "-", wantErr: models.ErrPriceInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := models.ParsePrice(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrice_String(t *testing.T) {
	assert.Equal(t, "5.00", models.Price(500).String())
	assert.Equal(t, "0.07", models.Price(7).String())
	assert.Equal(t, "-3.25", models.Price(-325).String())
}

func TestPrice_JSON(t *testing.T) {
	var payload struct {
		Price models.Price `json:"price"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"price": 12.5}`), &payload))
	assert.Equal(t, models.Price(1250), payload.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"price": "7.05"}`), &payload))
	assert.Equal(t, models.Price(705), payload.Price)

	err := json.Unmarshal([]byte(`{"price": 123456}`), &payload)
	assert.ErrorIs(t, err, models.ErrPriceTooManyDigits)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price": "7.05"}`, string(out))
}

func TestPrice_Scan(t *testing.T) {
	var p models.Price

	require.NoError(t, p.Scan(int64(5)))
	assert.Equal(t, models.Price(500), p)

	require.NoError(t, p.Scan(float64(5.5)))
	assert.Equal(t, models.Price(550), p)

	require.NoError(t, p.Scan([]byte("12.34")))
	assert.Equal(t, models.Price(1234), p)

	require.NoError(t, p.Scan("0.10"))
	assert.Equal(t, models.Price(10), p)

	assert.Error(t, p.Scan(true))
}
