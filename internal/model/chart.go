package model

import (
	"time"

	"github.com/shopspring/decimal"

	"venuestream/internal/model/enum"
)

// ChartTickFields is the field schema of a chart tick subscription.
var ChartTickFields = []string{
	"BID",
	"DAY_HIGH",
	"DAY_LOW",
	"DAY_NET_CHG_MID",
	"DAY_PERC_CHG_MID",
	"LTP",
	"LTV",
	"OFR",
	"TTV",
	"UTM",
}

// ChartTickUpdate is a single price tick of one instrument.
type ChartTickUpdate struct {
	Epic                string           `mapstructure:"-" json:"epic"`
	Bid                 *decimal.Decimal `mapstructure:"BID" json:"bid,omitempty"`
	DayHigh             *decimal.Decimal `mapstructure:"DAY_HIGH" json:"dayHigh,omitempty"`
	DayLow              *decimal.Decimal `mapstructure:"DAY_LOW" json:"dayLow,omitempty"`
	DayNetChangeMid     *decimal.Decimal `mapstructure:"DAY_NET_CHG_MID" json:"dayNetChangeMid,omitempty"`
	DayPercentChangeMid *decimal.Decimal `mapstructure:"DAY_PERC_CHG_MID" json:"dayPercentChangeMid,omitempty"`
	LastTradedPrice     *decimal.Decimal `mapstructure:"LTP" json:"lastTradedPrice,omitempty"`
	LastTradedVolume    *decimal.Decimal `mapstructure:"LTV" json:"lastTradedVolume,omitempty"`
	Offer               *decimal.Decimal `mapstructure:"OFR" json:"offer,omitempty"`
	TotalTickVolume     *decimal.Decimal `mapstructure:"TTV" json:"totalTickVolume,omitempty"`
	UpdateTime          *time.Time       `mapstructure:"UTM" json:"updateTime,omitempty"`
}

func (*ChartTickUpdate) Kind() enum.UpdateKind { return enum.UpdateKindChartTick }

// ConsolidatedChartFields is the field schema of a consolidated chart subscription.
var ConsolidatedChartFields = []string{
	"BID_OPEN",
	"BID_HIGH",
	"BID_LOW",
	"BID_CLOSE",
	"LTP_OPEN",
	"LTP_HIGH",
	"LTP_LOW",
	"LTP_CLOSE",
	"OFR_OPEN",
	"OFR_HIGH",
	"OFR_LOW",
	"OFR_CLOSE",
	"LTV",
	"TTV",
	"UTM",
	"DAY_OPEN_MID",
	"DAY_NET_CHG_MID",
	"DAY_PERC_CHG_MID",
	"DAY_HIGH",
	"DAY_LOW",
	"CONS_END",
	"CONS_TICK_COUNT",
}

// ConsolidatedChartUpdate is an OHLC bar of one instrument at one scale.
// ConsolidationEnd is set on the last update of a bar.
type ConsolidatedChartUpdate struct {
	Epic                string           `mapstructure:"-" json:"epic"`
	Scale               enum.Scale       `mapstructure:"-" json:"scale"`
	BidOpen             *decimal.Decimal `mapstructure:"BID_OPEN" json:"bidOpen,omitempty"`
	BidHigh             *decimal.Decimal `mapstructure:"BID_HIGH" json:"bidHigh,omitempty"`
	BidLow              *decimal.Decimal `mapstructure:"BID_LOW" json:"bidLow,omitempty"`
	BidClose            *decimal.Decimal `mapstructure:"BID_CLOSE" json:"bidClose,omitempty"`
	LastTradedOpen      *decimal.Decimal `mapstructure:"LTP_OPEN" json:"lastTradedOpen,omitempty"`
	LastTradedHigh      *decimal.Decimal `mapstructure:"LTP_HIGH" json:"lastTradedHigh,omitempty"`
	LastTradedLow       *decimal.Decimal `mapstructure:"LTP_LOW" json:"lastTradedLow,omitempty"`
	LastTradedClose     *decimal.Decimal `mapstructure:"LTP_CLOSE" json:"lastTradedClose,omitempty"`
	OfferOpen           *decimal.Decimal `mapstructure:"OFR_OPEN" json:"offerOpen,omitempty"`
	OfferHigh           *decimal.Decimal `mapstructure:"OFR_HIGH" json:"offerHigh,omitempty"`
	OfferLow            *decimal.Decimal `mapstructure:"OFR_LOW" json:"offerLow,omitempty"`
	OfferClose          *decimal.Decimal `mapstructure:"OFR_CLOSE" json:"offerClose,omitempty"`
	LastTradedVolume    *decimal.Decimal `mapstructure:"LTV" json:"lastTradedVolume,omitempty"`
	TotalTickVolume     *decimal.Decimal `mapstructure:"TTV" json:"totalTickVolume,omitempty"`
	UpdateTime          *time.Time       `mapstructure:"UTM" json:"updateTime,omitempty"`
	DayOpenMid          *decimal.Decimal `mapstructure:"DAY_OPEN_MID" json:"dayOpenMid,omitempty"`
	DayNetChangeMid     *decimal.Decimal `mapstructure:"DAY_NET_CHG_MID" json:"dayNetChangeMid,omitempty"`
	DayPercentChangeMid *decimal.Decimal `mapstructure:"DAY_PERC_CHG_MID" json:"dayPercentChangeMid,omitempty"`
	DayHigh             *decimal.Decimal `mapstructure:"DAY_HIGH" json:"dayHigh,omitempty"`
	DayLow              *decimal.Decimal `mapstructure:"DAY_LOW" json:"dayLow,omitempty"`
	ConsolidationEnd    *bool            `mapstructure:"CONS_END" json:"consolidationEnd,omitempty"`
	TickCount           *int             `mapstructure:"CONS_TICK_COUNT" json:"tickCount,omitempty"`
}

func (*ConsolidatedChartUpdate) Kind() enum.UpdateKind { return enum.UpdateKindConsolidatedChart }
