package model

import (
	"github.com/shopspring/decimal"

	"venuestream/internal/model/enum"
)

// MarketFields is the field schema of a market price subscription.
var MarketFields = []string{
	"BID",
	"HIGH",
	"LOW",
	"MID_OPEN",
	"ODDS",
	"OFFER",
	"STRIKE_PRICE",
}

// MarketUpdate carries the latest prices of one instrument.
type MarketUpdate struct {
	Epic        string           `mapstructure:"-" json:"epic"`
	Bid         *decimal.Decimal `mapstructure:"BID" json:"bid,omitempty"`
	High        *decimal.Decimal `mapstructure:"HIGH" json:"high,omitempty"`
	Low         *decimal.Decimal `mapstructure:"LOW" json:"low,omitempty"`
	MidOpen     *decimal.Decimal `mapstructure:"MID_OPEN" json:"midOpen,omitempty"`
	Odds        *decimal.Decimal `mapstructure:"ODDS" json:"odds,omitempty"`
	Offer       *decimal.Decimal `mapstructure:"OFFER" json:"offer,omitempty"`
	StrikePrice *decimal.Decimal `mapstructure:"STRIKE_PRICE" json:"strikePrice,omitempty"`
}

func (*MarketUpdate) Kind() enum.UpdateKind { return enum.UpdateKindMarket }
