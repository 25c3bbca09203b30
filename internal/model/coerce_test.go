package model

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuestream/internal/model/enum"
	"venuestream/pkg/exception"
)

func TestCoerceAccountUpdate(t *testing.T) {
	c := NewCoercer()

	rec, err := c.Coerce(enum.UpdateKindAccount, FieldsFromStrings(map[string]string{
		"AVAILABLE_CASH": "1500.25",
		"EQUITY":         "-20.5",
		"PNL":            "",
	}))
	require.NoError(t, err)

	update, ok := rec.(*AccountUpdate)
	require.True(t, ok)
	require.NotNil(t, update.AvailableCash)
	assert.True(t, decimal.RequireFromString("1500.25").Equal(*update.AvailableCash))
	require.NotNil(t, update.Equity)
	assert.True(t, decimal.RequireFromString("-20.5").Equal(*update.Equity))
	assert.Nil(t, update.PnL)
	assert.Nil(t, update.Margin)
	assert.Empty(t, update.AccountID)
}

func TestCoerceConsolidatedChart(t *testing.T) {
	c := NewCoercer()

	rec, err := c.Coerce(enum.UpdateKindConsolidatedChart, Fields{
		"BID_OPEN":        "1.0850",
		"CONS_END":        "1",
		"CONS_TICK_COUNT": "42",
		"UTM":             "1700000000000",
	})
	require.NoError(t, err)

	bar := rec.(*ConsolidatedChartUpdate)
	require.NotNil(t, bar.ConsolidationEnd)
	assert.True(t, *bar.ConsolidationEnd)
	require.NotNil(t, bar.TickCount)
	assert.Equal(t, 42, *bar.TickCount)
	require.NotNil(t, bar.UpdateTime)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), *bar.UpdateTime)
	assert.Nil(t, bar.OfferClose)
}

func TestCoerceRejectsBadValues(t *testing.T) {
	c := NewCoercer()

	testCases := []struct {
		desc   string
		kind   enum.UpdateKind
		fields Fields
	}{
		{"not a number", enum.UpdateKindMarket, Fields{"BID": "abc"}},
		{"bad time", enum.UpdateKindChartTick, Fields{"UTM": "yesterday"}},
		{"bad deal status", enum.UpdateKindDealConfirmation, Fields{"dealStatus": "MAYBE"}},
		{"bad direction", enum.UpdateKindPosition, Fields{"direction": "SIDEWAYS"}},
		{"bad order type", enum.UpdateKindWorkingOrder, Fields{"orderType": "MARKET"}},
		{"unknown kind", enum.UpdateKind(0), Fields{}},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := c.Coerce(tc.kind, tc.fields)
			require.ErrorIs(t, err, exception.ErrCoercion)
		})
	}
}

func TestCoerceNestedPayload(t *testing.T) {
	c := NewCoercer()

	fields, err := DecodePayload(`{
		"dealId": "DIAAAAB",
		"dealReference": "REF1",
		"dealStatus": "ACCEPTED",
		"direction": "BUY",
		"epic": "IX.D.FTSE.DAILY.IP",
		"level": 7512.35,
		"size": 2,
		"limitLevel": null,
		"status": "OPEN",
		"guaranteedStop": false,
		"date": "2024-03-01T10:15:30.123",
		"affectedDeals": [{"dealId": "DIAAAAB", "status": "OPENED"}]
	}`)
	require.NoError(t, err)

	rec, err := c.Coerce(enum.UpdateKindDealConfirmation, fields)
	require.NoError(t, err)

	confirm := rec.(*DealConfirmation)
	assert.Equal(t, "DIAAAAB", confirm.DealID)
	assert.Equal(t, DealStatusAccepted, confirm.DealStatus)
	assert.Equal(t, DirectionBuy, confirm.Direction)
	assert.Equal(t, ConfirmationStatusOpen, confirm.Status)
	require.NotNil(t, confirm.Level)
	assert.Equal(t, "7512.35", confirm.Level.String())
	require.NotNil(t, confirm.Size)
	assert.True(t, decimal.NewFromInt(2).Equal(*confirm.Size))
	assert.Nil(t, confirm.LimitLevel)
	require.NotNil(t, confirm.GuaranteedStop)
	assert.False(t, *confirm.GuaranteedStop)
	require.NotNil(t, confirm.Date)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 15, 30, 123000000, time.UTC), *confirm.Date)
	require.Len(t, confirm.AffectedDeals, 1)
	assert.Equal(t, "DIAAAAB", confirm.AffectedDeals[0].DealID)
}

func TestCoerceConfirmationStatus(t *testing.T) {
	c := NewCoercer()

	testCases := []struct {
		status string
		want   ConfirmationStatus
		ok     bool
	}{
		{"AMENDED", ConfirmationStatusAmended, true},
		{"CLOSED", ConfirmationStatusClosed, true},
		{"DELETED", ConfirmationStatusDeleted, true},
		{"OPEN", ConfirmationStatusOpen, true},
		{"PARTIALLY_CLOSED", ConfirmationStatusPartiallyClosed, true},
		{"UPDATED", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			rec, err := c.Coerce(enum.UpdateKindDealConfirmation, Fields{"dealId": "D1", "status": tc.status})
			if !tc.ok {
				require.ErrorIs(t, err, exception.ErrCoercion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, rec.(*DealConfirmation).Status)
		})
	}
}

func TestDecodePayloadInvalid(t *testing.T) {
	_, err := DecodePayload(`{"dealId":`)
	require.ErrorIs(t, err, exception.ErrCoercion)

	fields, err := DecodePayload(`null`)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestFieldSchemasMatchRecords(t *testing.T) {
	testCases := []struct {
		desc   string
		record Record
		fields []string
	}{
		{"account", &AccountUpdate{}, AccountFields},
		{"market", &MarketUpdate{}, MarketFields},
		{"chart tick", &ChartTickUpdate{}, ChartTickFields},
		{"consolidated chart", &ConsolidatedChartUpdate{}, ConsolidatedChartFields},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			tagged := make(map[string]bool)
			typ := reflect.TypeOf(tc.record).Elem()
			for i := 0; i < typ.NumField(); i++ {
				tag := typ.Field(i).Tag.Get("mapstructure")
				if tag == "-" {
					continue
				}
				tagged[tag] = true
			}
			require.Len(t, tc.fields, len(tagged))
			for _, f := range tc.fields {
				assert.Truef(t, tagged[f], "field %s has no record attribute", f)
				assert.Equal(t, strings.ToUpper(f), f)
			}
		})
	}
}
