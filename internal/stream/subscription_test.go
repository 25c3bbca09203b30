package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuestream/internal/model"
	"venuestream/internal/model/enum"
	"venuestream/internal/topic"
	"venuestream/pkg/exception"
)

func TestBuilderDescriptors(t *testing.T) {
	b := NewBuilder(AccountIDs("ACC1", "ACC2"))

	testCases := []struct {
		desc   string
		build  func() (Descriptor, error)
		family topic.Family
		items  []string
		fields []string
		mode   enum.MergeMode
	}{
		{
			"account balances",
			func() (Descriptor, error) { return b.AccountBalances([]string{"ABC123"}) },
			topic.FamilyAccount,
			[]string{"ACCOUNT:ABC123"},
			model.AccountFields,
			enum.MergeModeMerge,
		},
		{
			"market prices",
			func() (Descriptor, error) {
				return b.MarketPrices([]string{"IX.D.FTSE.DAILY.IP", "CS.D.EURUSD.MINI.IP"})
			},
			topic.FamilyMarket,
			[]string{"MARKET:IX.D.FTSE.DAILY.IP", "MARKET:CS.D.EURUSD.MINI.IP"},
			model.MarketFields,
			enum.MergeModeMerge,
		},
		{
			"trade events",
			func() (Descriptor, error) { return b.TradeEvents([]string{"ABC123"}) },
			topic.FamilyTrade,
			[]string{"TRADE:ABC123"},
			[]string{"CONFIRMS", "OPU", "WOU"},
			enum.MergeModeDistinct,
		},
		{
			"chart ticks",
			func() (Descriptor, error) { return b.ChartTicks([]string{"CS.D.EURUSD.MINI.IP"}) },
			topic.FamilyChartTick,
			[]string{"CHART:CS.D.EURUSD.MINI.IP:TICK"},
			model.ChartTickFields,
			enum.MergeModeDistinct,
		},
		{
			"chart candles",
			func() (Descriptor, error) {
				return b.ChartCandles([]string{"XYZ.123", "ABC.456"}, enum.ScaleFiveMinutes)
			},
			topic.FamilyChartCandle,
			[]string{"CHART:XYZ.123:5MINUTE", "CHART:ABC.456:5MINUTE"},
			model.ConsolidatedChartFields,
			enum.MergeModeMerge,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			d, err := tc.build()
			require.NoError(t, err)
			assert.Equal(t, tc.family, d.Family())
			assert.Equal(t, tc.items, d.Items())
			assert.Equal(t, tc.fields, d.Fields())
			assert.Equal(t, tc.mode, d.Mode())
			require.Len(t, d.Keys(), len(tc.items))
			for i, key := range d.Keys() {
				assert.Equal(t, tc.items[i], topic.Encode(key))
			}
		})
	}
}

func TestBuilderResolvesAccounts(t *testing.T) {
	b := NewBuilder(AccountIDs("ACC1", "ACC2"))

	d, err := b.AccountBalances(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACCOUNT:ACC1", "ACCOUNT:ACC2"}, d.Items())

	d, err = b.TradeEvents(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"TRADE:ACC1", "TRADE:ACC2"}, d.Items())

	_, err = NewBuilder(nil).AccountBalances(nil)
	assert.ErrorIs(t, err, exception.ErrNoAccounts)

	_, err = NewBuilder(StaticAccounts{}).TradeEvents(nil)
	assert.ErrorIs(t, err, exception.ErrNoAccounts)
}

func TestBuilderRejectsBadInput(t *testing.T) {
	b := NewBuilder(nil)

	_, err := b.MarketPrices(nil)
	assert.ErrorIs(t, err, exception.ErrInvalidArgument)

	_, err = b.MarketPrices([]string{"BAD:EPIC"})
	assert.ErrorIs(t, err, exception.ErrInvalidArgument)

	_, err = b.ChartTicks([]string{""})
	assert.ErrorIs(t, err, exception.ErrInvalidArgument)

	_, err = b.ChartCandles([]string{"XYZ.123"}, enum.Scale(0))
	assert.ErrorIs(t, err, exception.ErrInvalidArgument)
}

func TestBuilderDeduplicates(t *testing.T) {
	d, err := NewBuilder(nil).MarketPrices([]string{"A.B", "C.D", "A.B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"MARKET:A.B", "MARKET:C.D"}, d.Items())
}

func TestDescriptorIsImmutable(t *testing.T) {
	d, err := NewBuilder(nil).MarketPrices([]string{"A.B"})
	require.NoError(t, err)

	d.Items()[0] = "MARKET:CHANGED"
	d.Fields()[0] = "CHANGED"
	assert.Equal(t, []string{"MARKET:A.B"}, d.Items())
	assert.Equal(t, "BID", d.Fields()[0])
	assert.Equal(t, "BID", model.MarketFields[0])
}
