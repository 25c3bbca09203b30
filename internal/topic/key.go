// Package topic encodes and decodes the string keys that address push topics.
//
// Keys are colon delimited:
//
//	ACCOUNT:<account id>
//	MARKET:<epic>
//	TRADE:<account id>
//	CHART:<epic>:TICK
//	CHART:<epic>:<scale token>
package topic

import (
	"strings"

	"github.com/yanun0323/errors"

	"venuestream/internal/model/enum"
	"venuestream/pkg/exception"
)

// Family is the grammar a topic key follows.
type Family uint8

const (
	_family_beg Family = iota
	FamilyAccount
	FamilyMarket
	FamilyTrade
	FamilyChartTick
	FamilyChartCandle
	_family_end
)

const (
	prefixAccount = "ACCOUNT"
	prefixMarket  = "MARKET"
	prefixTrade   = "TRADE"
	prefixChart   = "CHART"
	suffixTick    = "TICK"

	sep = ":"
)

func (f Family) IsAvailable() bool {
	return f > _family_beg && f < _family_end
}

func (f Family) String() string {
	switch f {
	case FamilyAccount:
		return "account"
	case FamilyMarket:
		return "market"
	case FamilyTrade:
		return "trade"
	case FamilyChartTick:
		return "chart_tick"
	case FamilyChartCandle:
		return "chart_candle"
	default:
		return "unknown"
	}
}

// Key is the structured form of a topic key.
// Scale is only meaningful for FamilyChartCandle.
type Key struct {
	Family Family
	ID     string
	Scale  enum.Scale
}

func Account(accountID string) Key {
	return Key{Family: FamilyAccount, ID: accountID}
}

func Market(epic string) Key {
	return Key{Family: FamilyMarket, ID: epic}
}

func Trade(accountID string) Key {
	return Key{Family: FamilyTrade, ID: accountID}
}

func ChartTick(epic string) Key {
	return Key{Family: FamilyChartTick, ID: epic}
}

func ChartCandle(epic string, scale enum.Scale) Key {
	return Key{Family: FamilyChartCandle, ID: epic, Scale: scale}
}

// String renders the key, see Encode.
func (k Key) String() string {
	return Encode(k)
}

// Encode renders a key to its transport string.
// It returns an empty string for keys that cannot be decoded back.
func Encode(k Key) string {
	if !validID(k.ID) {
		return ""
	}
	switch k.Family {
	case FamilyAccount:
		return prefixAccount + sep + k.ID
	case FamilyMarket:
		return prefixMarket + sep + k.ID
	case FamilyTrade:
		return prefixTrade + sep + k.ID
	case FamilyChartTick:
		return prefixChart + sep + k.ID + sep + suffixTick
	case FamilyChartCandle:
		if !k.Scale.IsAvailable() {
			return ""
		}
		return prefixChart + sep + k.ID + sep + k.Scale.Token()
	default:
		return ""
	}
}

// Decode parses s following the grammar of family.
// Keys are always produced by Encode, so a mismatch is a contract violation
// reported as exception.ErrMalformedTopicKey.
func Decode(family Family, s string) (Key, error) {
	parts := strings.Split(s, sep)
	switch family {
	case FamilyAccount:
		return decodeSimple(family, prefixAccount, parts, s)
	case FamilyMarket:
		return decodeSimple(family, prefixMarket, parts, s)
	case FamilyTrade:
		return decodeSimple(family, prefixTrade, parts, s)
	case FamilyChartTick:
		if len(parts) != 3 || parts[0] != prefixChart || parts[2] != suffixTick || !validID(parts[1]) {
			return Key{}, malformed(family, s)
		}
		return ChartTick(parts[1]), nil
	case FamilyChartCandle:
		if len(parts) != 3 || parts[0] != prefixChart || !validID(parts[1]) {
			return Key{}, malformed(family, s)
		}
		scale, ok := enum.ParseScaleToken(parts[2])
		if !ok {
			return Key{}, malformed(family, s)
		}
		return ChartCandle(parts[1], scale), nil
	default:
		return Key{}, malformed(family, s)
	}
}

func decodeSimple(family Family, prefix string, parts []string, s string) (Key, error) {
	if len(parts) != 2 || parts[0] != prefix || !validID(parts[1]) {
		return Key{}, malformed(family, s)
	}
	return Key{Family: family, ID: parts[1]}, nil
}

func validID(id string) bool {
	return len(id) != 0 && !strings.Contains(id, sep) && !strings.ContainsAny(id, " \t\r\n")
}

func malformed(family Family, s string) error {
	return errors.Wrap(exception.ErrMalformedTopicKey, "decode "+family.String()+" topic key").With("key", s)
}
