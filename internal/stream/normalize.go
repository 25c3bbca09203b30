package stream

import (
	"github.com/yanun0323/errors"

	"venuestream/internal/model"
	"venuestream/internal/model/enum"
	"venuestream/internal/topic"
)

// normalizeFunc turns one push into the events to enqueue, in order.
// Failures are returned as non-fatal transport error events.
type normalizeFunc func(c Coercer, u Update) []Event

var normalizers = [...]normalizeFunc{
	topic.FamilyAccount:     mergedOf(topic.FamilyAccount, enum.UpdateKindAccount),
	topic.FamilyMarket:      mergedOf(topic.FamilyMarket, enum.UpdateKindMarket),
	topic.FamilyTrade:       normalizeTrade,
	topic.FamilyChartTick:   distinctOf(topic.FamilyChartTick, enum.UpdateKindChartTick),
	topic.FamilyChartCandle: mergedOf(topic.FamilyChartCandle, enum.UpdateKindConsolidatedChart),
}

// tradeFanOut lists the trade sub-keys in emission order.
var tradeFanOut = [...]struct {
	field string
	kind  enum.UpdateKind
}{
	{model.TradeFieldConfirms, enum.UpdateKindDealConfirmation},
	{model.TradeFieldPosition, enum.UpdateKindPosition},
	{model.TradeFieldWorkingOrder, enum.UpdateKindWorkingOrder},
}

// mergedOf normalizes MERGE families: the delta and the merged state are
// coerced separately and delivered together.
func mergedOf(family topic.Family, kind enum.UpdateKind) normalizeFunc {
	return func(c Coercer, u Update) []Event {
		key, err := topic.Decode(family, u.Item)
		if err != nil {
			return []Event{errorEvent(u.Item, err, false)}
		}

		payload, err := coerce(c, kind, key, model.FieldsFromStrings(u.Changed))
		if err != nil {
			return []Event{errorEvent(u.Item, err, false)}
		}

		merged := u.Fields
		if merged == nil {
			merged = u.Changed
		}
		snapshot, err := coerce(c, kind, key, model.FieldsFromStrings(merged))
		if err != nil {
			return []Event{errorEvent(u.Item, err, false)}
		}
		return []Event{snapshotEvent(u.Item, payload, snapshot)}
	}
}

// distinctOf normalizes DISTINCT families: only the delta is delivered.
func distinctOf(family topic.Family, kind enum.UpdateKind) normalizeFunc {
	return func(c Coercer, u Update) []Event {
		key, err := topic.Decode(family, u.Item)
		if err != nil {
			return []Event{errorEvent(u.Item, err, false)}
		}
		payload, err := coerce(c, kind, key, model.FieldsFromStrings(u.Changed))
		if err != nil {
			return []Event{errorEvent(u.Item, err, false)}
		}
		return []Event{dataEvent(u.Item, payload)}
	}
}

// normalizeTrade fans one push out into one event per present sub-key.
func normalizeTrade(c Coercer, u Update) []Event {
	key, err := topic.Decode(topic.FamilyTrade, u.Item)
	if err != nil {
		return []Event{errorEvent(u.Item, err, false)}
	}

	events := make([]Event, 0, len(tradeFanOut))
	for _, sub := range tradeFanOut {
		raw := u.Changed[sub.field]
		if len(raw) == 0 {
			continue
		}
		fields, err := model.DecodePayload(raw)
		if err != nil {
			events = append(events, errorEvent(u.Item, errors.Wrap(err, "decode "+sub.field), false))
			continue
		}
		payload, err := coerce(c, sub.kind, key, fields)
		if err != nil {
			events = append(events, errorEvent(u.Item, err, false))
			continue
		}
		events = append(events, dataEvent(u.Item, payload))
	}
	return events
}

func coerce(c Coercer, kind enum.UpdateKind, key topic.Key, fields model.Fields) (model.Record, error) {
	rec, err := c.Coerce(kind, fields)
	if err != nil {
		return nil, err
	}
	attach(rec, key)
	return rec, nil
}

// attach sets the identifiers carried by the topic key, which are never part
// of the field set.
func attach(rec model.Record, key topic.Key) {
	switch r := rec.(type) {
	case *model.AccountUpdate:
		r.AccountID = key.ID
	case *model.MarketUpdate:
		r.Epic = key.ID
	case *model.DealConfirmation:
		r.AccountID = key.ID
	case *model.PositionUpdate:
		r.AccountID = key.ID
	case *model.WorkingOrderUpdate:
		r.AccountID = key.ID
	case *model.ChartTickUpdate:
		r.Epic = key.ID
	case *model.ConsolidatedChartUpdate:
		r.Epic = key.ID
		r.Scale = key.Scale
	}
}
