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

const (
	confirmPayload  = `{"dealId":"DIAAAAB","dealReference":"REF1","dealStatus":"ACCEPTED","direction":"BUY","epic":"IX.D.FTSE.DAILY.IP","level":7512.35,"size":1,"status":"OPEN"}`
	positionPayload = `{"dealId":"DIAAAAB","dealStatus":"ACCEPTED","direction":"BUY","epic":"IX.D.FTSE.DAILY.IP","level":7512.35,"size":1,"status":"OPEN","currency":"GBP"}`
	orderPayload    = `{"dealId":"DIAAAAC","dealStatus":"ACCEPTED","direction":"SELL","epic":"IX.D.FTSE.DAILY.IP","level":7600,"size":2,"status":"OPEN","orderType":"LIMIT","timeInForce":"GOOD_TILL_CANCELLED"}`
)

// identifiers extracts the ids a normalizer attaches to a record.
func identifiers(rec model.Record) (string, enum.Scale) {
	switch r := rec.(type) {
	case *model.AccountUpdate:
		return r.AccountID, 0
	case *model.MarketUpdate:
		return r.Epic, 0
	case *model.DealConfirmation:
		return r.AccountID, 0
	case *model.PositionUpdate:
		return r.AccountID, 0
	case *model.WorkingOrderUpdate:
		return r.AccountID, 0
	case *model.ChartTickUpdate:
		return r.Epic, 0
	case *model.ConsolidatedChartUpdate:
		return r.Epic, r.Scale
	}
	return "", 0
}

func TestNormalizeAttachesIdentifiers(t *testing.T) {
	c := model.NewCoercer()

	testCases := []struct {
		desc    string
		key     topic.Key
		changed map[string]string
		kind    enum.UpdateKind
		typ     enum.EventType
	}{
		{"account", topic.Account("ABC123"), map[string]string{"PNL": "-12.5"}, enum.UpdateKindAccount, enum.EventTypeDataWithSnapshot},
		{"market", topic.Market("IX.D.FTSE.DAILY.IP"), map[string]string{"BID": "7512.3"}, enum.UpdateKindMarket, enum.EventTypeDataWithSnapshot},
		{"trade", topic.Trade("ABC123"), map[string]string{"CONFIRMS": confirmPayload}, enum.UpdateKindDealConfirmation, enum.EventTypeData},
		{"chart tick", topic.ChartTick("CS.D.EURUSD.MINI.IP"), map[string]string{"BID": "1.0812", "UTM": "1709288130123"}, enum.UpdateKindChartTick, enum.EventTypeData},
		{"chart candle", topic.ChartCandle("XYZ.123", enum.ScaleOneHour), map[string]string{"BID_OPEN": "10", "CONS_END": "1"}, enum.UpdateKindConsolidatedChart, enum.EventTypeDataWithSnapshot},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			item := topic.Encode(tc.key)
			events := normalizers[tc.key.Family](c, Update{Item: item, Changed: tc.changed})
			require.Len(t, events, 1)

			ev := events[0]
			require.NoError(t, ev.Err)
			assert.Equal(t, tc.typ, ev.Type)
			assert.Equal(t, tc.kind, ev.Kind)
			assert.Equal(t, item, ev.Item)

			id, scale := identifiers(ev.Payload)
			assert.Equal(t, tc.key.ID, id)
			assert.Equal(t, tc.key.Scale, scale)
			if ev.Type == enum.EventTypeDataWithSnapshot {
				id, scale = identifiers(ev.Snapshot)
				assert.Equal(t, tc.key.ID, id)
				assert.Equal(t, tc.key.Scale, scale)
			}
		})
	}
}

func TestNormalizeMergeSnapshot(t *testing.T) {
	events := normalizers[topic.FamilyMarket](model.NewCoercer(), Update{
		Item:    "MARKET:IX.D.FTSE.DAILY.IP",
		Changed: map[string]string{"OFFER": "7513.1"},
		Fields:  map[string]string{"BID": "7512.3", "OFFER": "7513.1", "HIGH": "7550"},
	})
	require.Len(t, events, 1)

	delta := events[0].Payload.(*model.MarketUpdate)
	assert.Nil(t, delta.Bid)
	require.NotNil(t, delta.Offer)
	assert.Equal(t, "7513.1", delta.Offer.String())

	snapshot := events[0].Snapshot.(*model.MarketUpdate)
	require.NotNil(t, snapshot.Bid)
	assert.Equal(t, "7512.3", snapshot.Bid.String())
	require.NotNil(t, snapshot.High)
	assert.Equal(t, "7550", snapshot.High.String())
	assert.Equal(t, "IX.D.FTSE.DAILY.IP", snapshot.Epic)
}

func TestNormalizeTradeFanOut(t *testing.T) {
	c := model.NewCoercer()

	testCases := []struct {
		desc    string
		changed map[string]string
		kinds   []enum.UpdateKind
	}{
		{"none", map[string]string{}, nil},
		{"confirm only", map[string]string{"CONFIRMS": confirmPayload}, []enum.UpdateKind{enum.UpdateKindDealConfirmation}},
		{
			"confirm and working order",
			map[string]string{"CONFIRMS": confirmPayload, "WOU": orderPayload},
			[]enum.UpdateKind{enum.UpdateKindDealConfirmation, enum.UpdateKindWorkingOrder},
		},
		{
			"working order and position",
			map[string]string{"WOU": orderPayload, "OPU": positionPayload},
			[]enum.UpdateKind{enum.UpdateKindPosition, enum.UpdateKindWorkingOrder},
		},
		{
			"all three",
			map[string]string{"CONFIRMS": confirmPayload, "OPU": positionPayload, "WOU": orderPayload},
			[]enum.UpdateKind{enum.UpdateKindDealConfirmation, enum.UpdateKindPosition, enum.UpdateKindWorkingOrder},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			events := normalizeTrade(c, Update{Item: "TRADE:ABC123", Changed: tc.changed})
			require.Len(t, events, len(tc.kinds))
			for i, ev := range events {
				assert.Equal(t, enum.EventTypeData, ev.Type)
				assert.Equal(t, tc.kinds[i], ev.Kind)
				assert.Nil(t, ev.Snapshot)
				id, _ := identifiers(ev.Payload)
				assert.Equal(t, "ABC123", id)
			}
		})
	}
}

func TestNormalizeTradeKeepsFieldsApart(t *testing.T) {
	events := normalizeTrade(model.NewCoercer(), Update{
		Item:    "TRADE:ABC123",
		Changed: map[string]string{"CONFIRMS": confirmPayload, "WOU": orderPayload},
	})
	require.Len(t, events, 2)

	confirm := events[0].Payload.(*model.DealConfirmation)
	assert.Equal(t, "DIAAAAB", confirm.DealID)
	assert.Equal(t, model.DirectionBuy, confirm.Direction)

	order := events[1].Payload.(*model.WorkingOrderUpdate)
	assert.Equal(t, "DIAAAAC", order.DealID)
	assert.Equal(t, model.OrderTypeLimit, order.OrderType)
	assert.Empty(t, order.DealReference)
}

func TestNormalizeTradePartialClose(t *testing.T) {
	events := normalizeTrade(model.NewCoercer(), Update{
		Item: "TRADE:ABC123",
		Changed: map[string]string{
			"CONFIRMS": `{"dealId":"D1","dealStatus":"ACCEPTED","direction":"SELL","size":1,"status":"PARTIALLY_CLOSED"}`,
		},
	})
	require.Len(t, events, 1)
	require.Equal(t, enum.EventTypeData, events[0].Type)

	confirm := events[0].Payload.(*model.DealConfirmation)
	assert.Equal(t, model.ConfirmationStatusPartiallyClosed, confirm.Status)
	assert.Equal(t, "ABC123", confirm.AccountID)
}

func TestNormalizeFailures(t *testing.T) {
	c := model.NewCoercer()

	testCases := []struct {
		desc   string
		family topic.Family
		update Update
		target error
	}{
		{"wrong prefix", topic.FamilyAccount, Update{Item: "MARKET:ABC"}, exception.ErrMalformedTopicKey},
		{"missing scale", topic.FamilyChartCandle, Update{Item: "CHART:XYZ.123"}, exception.ErrMalformedTopicKey},
		{"trade key", topic.FamilyTrade, Update{Item: "TRADE:"}, exception.ErrMalformedTopicKey},
		{"bad decimal", topic.FamilyMarket, Update{Item: "MARKET:A.B", Changed: map[string]string{"BID": "abc"}}, exception.ErrCoercion},
		{"bad tick time", topic.FamilyChartTick, Update{Item: "CHART:A.B:TICK", Changed: map[string]string{"UTM": "yesterday"}}, exception.ErrCoercion},
		{"bad trade json", topic.FamilyTrade, Update{Item: "TRADE:ABC", Changed: map[string]string{"OPU": "{"}}, exception.ErrCoercion},
		{"bad direction", topic.FamilyTrade, Update{Item: "TRADE:ABC", Changed: map[string]string{"CONFIRMS": `{"direction":"UP"}`}}, exception.ErrCoercion},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			events := normalizers[tc.family](c, tc.update)
			require.Len(t, events, 1)
			assert.Equal(t, enum.EventTypeTransportError, events[0].Type)
			assert.False(t, events[0].Fatal)
			assert.ErrorIs(t, events[0].Err, tc.target)
		})
	}
}

func TestNormalizeTradePartialFailure(t *testing.T) {
	events := normalizeTrade(model.NewCoercer(), Update{
		Item:    "TRADE:ABC123",
		Changed: map[string]string{"CONFIRMS": "not json", "OPU": positionPayload},
	})
	require.Len(t, events, 2)
	assert.Equal(t, enum.EventTypeTransportError, events[0].Type)
	assert.ErrorIs(t, events[0].Err, exception.ErrCoercion)
	assert.Equal(t, enum.EventTypeData, events[1].Type)
	assert.Equal(t, enum.UpdateKindPosition, events[1].Kind)
}
