package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuestream/internal/model/enum"
	"venuestream/pkg/exception"
)

func TestDecodeChartCandle(t *testing.T) {
	key, err := Decode(FamilyChartCandle, "CHART:XYZ.123:5MINUTE")
	require.NoError(t, err)
	assert.Equal(t, "XYZ.123", key.ID)
	assert.Equal(t, enum.ScaleFiveMinutes, key.Scale)
	assert.Equal(t, "CHART:XYZ.123:5MINUTE", Encode(ChartCandle("XYZ.123", enum.ScaleFiveMinutes)))
}

func TestRoundTrip(t *testing.T) {
	testCases := []struct {
		desc    string
		key     Key
		encoded string
	}{
		{"account", Account("ABC123"), "ACCOUNT:ABC123"},
		{"market", Market("IX.D.FTSE.DAILY.IP"), "MARKET:IX.D.FTSE.DAILY.IP"},
		{"trade", Trade("ABC123"), "TRADE:ABC123"},
		{"chart tick", ChartTick("CS.D.EURUSD.MINI.IP"), "CHART:CS.D.EURUSD.MINI.IP:TICK"},
		{"chart second", ChartCandle("CS.D.EURUSD.MINI.IP", enum.ScaleOneSecond), "CHART:CS.D.EURUSD.MINI.IP:SECOND"},
		{"chart minute", ChartCandle("CS.D.EURUSD.MINI.IP", enum.ScaleOneMinute), "CHART:CS.D.EURUSD.MINI.IP:1MINUTE"},
		{"chart hour", ChartCandle("CS.D.EURUSD.MINI.IP", enum.ScaleOneHour), "CHART:CS.D.EURUSD.MINI.IP:HOUR"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			encoded := Encode(tc.key)
			require.Equal(t, tc.encoded, encoded)

			decoded, err := Decode(tc.key.Family, encoded)
			require.NoError(t, err)
			assert.Equal(t, tc.key, decoded)
			assert.Equal(t, encoded, decoded.String())
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	testCases := []struct {
		desc   string
		family Family
		key    string
	}{
		{"empty", FamilyAccount, ""},
		{"wrong prefix", FamilyAccount, "MARKET:ABC"},
		{"missing id", FamilyMarket, "MARKET:"},
		{"extra segment", FamilyTrade, "TRADE:ABC:DEF"},
		{"tick without suffix", FamilyChartTick, "CHART:XYZ"},
		{"tick with scale", FamilyChartTick, "CHART:XYZ:HOUR"},
		{"candle with tick", FamilyChartCandle, "CHART:XYZ:TICK"},
		{"candle unknown scale", FamilyChartCandle, "CHART:XYZ:15MINUTE"},
		{"candle lowercase scale", FamilyChartCandle, "CHART:XYZ:hour"},
		{"unknown family", Family(0), "ACCOUNT:ABC"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := Decode(tc.family, tc.key)
			require.ErrorIs(t, err, exception.ErrMalformedTopicKey)
		})
	}
}

func TestEncodeRejectsUndecodableKeys(t *testing.T) {
	assert.Empty(t, Encode(Account("")))
	assert.Empty(t, Encode(Market("A:B")))
	assert.Empty(t, Encode(Market("A B")))
	assert.Empty(t, Encode(ChartCandle("XYZ", enum.Scale(0))))
	assert.Empty(t, Encode(Key{Family: Family(9), ID: "XYZ"}))
}
