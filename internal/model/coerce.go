package model

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"venuestream/internal/model/enum"
	"venuestream/pkg/exception"
)

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
}

var payloadAPI = sonic.Config{UseNumber: true}.Froze()

// Coercer turns raw field sets into typed records.
// It is safe for concurrent use.
type Coercer struct {
	validate *validator.Validate
}

func NewCoercer() *Coercer {
	return &Coercer{validate: validator.New()}
}

// Coerce builds the record of the given kind from fields.
// Blank values leave the matching record field unset.
func (c *Coercer) Coerce(kind enum.UpdateKind, fields Fields) (Record, error) {
	rec := newRecord(kind)
	if rec == nil {
		return nil, errors.Wrap(exception.ErrCoercion, "unknown update kind").With("kind", kind)
	}

	input := make(map[string]any, len(fields))
	for k, v := range fields {
		if isBlank(v) {
			continue
		}
		input[k] = v
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.DecodeHookFuncType(decimalHook),
			mapstructure.DecodeHookFuncType(timeHook),
		),
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           rec,
	})
	if err != nil {
		return nil, errors.Wrap(err, "new decoder")
	}

	if err := decoder.Decode(input); err != nil {
		return nil, errors.Wrap(coercionError(err), "decode "+kind.String())
	}

	if err := c.validate.Struct(rec); err != nil {
		return nil, errors.Wrap(coercionError(err), "validate "+kind.String())
	}

	return rec, nil
}

// DecodePayload parses a nested JSON payload, keeping numbers exact.
// A JSON null yields nil fields.
func DecodePayload(raw string) (Fields, error) {
	var fields map[string]any
	if err := payloadAPI.UnmarshalFromString(raw, &fields); err != nil {
		return nil, errors.Wrap(coercionError(err), "decode payload")
	}
	return Fields(fields), nil
}

func newRecord(kind enum.UpdateKind) Record {
	switch kind {
	case enum.UpdateKindAccount:
		return &AccountUpdate{}
	case enum.UpdateKindMarket:
		return &MarketUpdate{}
	case enum.UpdateKindDealConfirmation:
		return &DealConfirmation{}
	case enum.UpdateKindPosition:
		return &PositionUpdate{}
	case enum.UpdateKindWorkingOrder:
		return &WorkingOrderUpdate{}
	case enum.UpdateKindChartTick:
		return &ChartTickUpdate{}
	case enum.UpdateKindConsolidatedChart:
		return &ConsolidatedChartUpdate{}
	default:
		return nil
	}
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return len(val) == 0
	default:
		return false
	}
}

func decimalHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}

	switch v := data.(type) {
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return data, nil
	}
}

func timeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}

	switch v := data.(type) {
	case string:
		return parseTime(strings.TrimSpace(v))
	case json.Number:
		return parseTime(v.String())
	case float64:
		return time.UnixMilli(int64(v)).UTC(), nil
	case int64:
		return time.UnixMilli(v).UTC(), nil
	default:
		return data, nil
	}
}

// parseTime accepts epoch milliseconds or one of timeLayouts.
// Layouts without a zone are read as UTC.
func parseTime(s string) (time.Time, error) {
	if millis, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(millis).UTC(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unsupported time format: " + s)
}

func coercionError(err error) error {
	return &wrappedCoercion{err: err}
}

// wrappedCoercion keeps the underlying cause while matching exception.ErrCoercion.
type wrappedCoercion struct {
	err error
}

func (e *wrappedCoercion) Error() string {
	return exception.ErrCoercion.Error() + ", err: " + e.err.Error()
}

func (e *wrappedCoercion) Unwrap() []error {
	return []error{exception.ErrCoercion, e.err}
}
