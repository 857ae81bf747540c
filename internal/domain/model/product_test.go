package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrentPrice(t *testing.T) {
	base := decimal.NewFromInt(100)

	p := Product{Price: base}
	if !p.CurrentPrice().Equal(base) {
		t.Errorf("no sale: got %s", p.CurrentPrice())
	}

	p.SalePrice = decimal.NewNullDecimal(decimal.NewFromInt(80))
	if !p.CurrentPrice().Equal(decimal.NewFromInt(80)) {
		t.Errorf("with sale: got %s", p.CurrentPrice())
	}

	//0や負のセール価格は無視
	p.SalePrice = decimal.NewNullDecimal(decimal.Zero)
	if !p.CurrentPrice().Equal(base) {
		t.Errorf("zero sale: got %s", p.CurrentPrice())
	}
}

func TestDiscountPercent(t *testing.T) {
	p := Product{Price: decimal.NewFromInt(100)}
	if p.DiscountPercent() != 0 {
		t.Errorf("no sale: got %d", p.DiscountPercent())
	}

	p.SalePrice = decimal.NewNullDecimal(decimal.NewFromInt(75))
	if p.DiscountPercent() != 25 {
		t.Errorf("75 of 100: got %d", p.DiscountPercent())
	}

	//セール価格が定価以上なら割引なし
	p.SalePrice = decimal.NewNullDecimal(decimal.NewFromInt(120))
	if p.DiscountPercent() != 0 {
		t.Errorf("sale above price: got %d", p.DiscountPercent())
	}
}
