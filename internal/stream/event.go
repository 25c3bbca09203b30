package stream

import (
	"time"

	"venuestream/internal/model"
	"venuestream/internal/model/enum"
)

// Event is the unit placed on the queue. Type tells which fields are set:
//
//	EventTypeData:             Kind, Item, Payload
//	EventTypeDataWithSnapshot: Kind, Item, Payload, Snapshot
//	EventTypeTransportError:   Err, Fatal (Item when the error belongs to one push)
type Event struct {
	Type     enum.EventType
	Kind     enum.UpdateKind
	Item     string
	Payload  model.Record
	Snapshot model.Record
	Err      error
	Fatal    bool
	// ReceivedAt is set when the event is enqueued.
	ReceivedAt time.Time
}

func dataEvent(item string, payload model.Record) Event {
	return Event{
		Type:    enum.EventTypeData,
		Kind:    payload.Kind(),
		Item:    item,
		Payload: payload,
	}
}

func snapshotEvent(item string, payload, snapshot model.Record) Event {
	return Event{
		Type:     enum.EventTypeDataWithSnapshot,
		Kind:     payload.Kind(),
		Item:     item,
		Payload:  payload,
		Snapshot: snapshot,
	}
}

func errorEvent(item string, err error, fatal bool) Event {
	return Event{
		Type:  enum.EventTypeTransportError,
		Item:  item,
		Err:   err,
		Fatal: fatal,
	}
}
