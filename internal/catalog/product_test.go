package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		name     string
		price    decimal.Decimal
		original decimal.Decimal
		want     int
	}{
		{"no original price", decimal.NewFromInt(100), decimal.Decimal{}, 0},
		{"equal prices", decimal.NewFromInt(100), decimal.NewFromInt(100), 0},
		{"original below price", decimal.NewFromInt(100), decimal.NewFromInt(80), 0},
		{"twenty percent off", decimal.NewFromInt(80), decimal.NewFromInt(100), 20},
		{"rounds up", decimal.NewFromInt(2), decimal.NewFromInt(3), 33},
		{"free item", decimal.Zero, decimal.NewFromInt(50), 100},
		{"fractional prices", decimal.NewFromFloat(74.99), decimal.NewFromFloat(99.99), 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountPercent(tt.price, tt.original))
		})
	}
}

func TestDiscountPercent_SamePriceAlwaysZero(t *testing.T) {
	for _, v := range []int64{0, 1, 99, 12500} {
		p := decimal.NewFromInt(v)
		assert.Zero(t, DiscountPercent(p, p), "price %d", v)
	}
}

func TestProduct_HasDiscount(t *testing.T) {
	p := Product{Price: decimal.NewFromInt(80)}
	assert.False(t, p.HasDiscount(), "no original price")

	p.OriginalPrice = decimal.NewFromInt(80)
	assert.False(t, p.HasDiscount(), "original equals price")

	p.OriginalPrice = decimal.NewFromInt(100)
	assert.True(t, p.HasDiscount())
	assert.Equal(t, 20, p.DiscountPercent())
}

func TestProduct_ImageURL(t *testing.T) {
	p := Product{}
	assert.Equal(t, PlaceholderImage, p.ImageURL())

	p.Image = "https://cdn.example.com/pump.jpg"
	assert.Equal(t, "https://cdn.example.com/pump.jpg", p.ImageURL())
}
