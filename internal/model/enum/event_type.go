package enum

// EventType tags the variant of a stream event.
type EventType uint8

const (
	_event_type_beg EventType = iota
	EventTypeData
	EventTypeDataWithSnapshot
	EventTypeTransportError
	_event_type_end
)

func (t EventType) IsAvailable() bool {
	return t > _event_type_beg && t < _event_type_end
}

func (t EventType) String() string {
	switch t {
	case EventTypeData:
		return "Data"
	case EventTypeDataWithSnapshot:
		return "DataWithSnapshot"
	case EventTypeTransportError:
		return "TransportError"
	default:
		return "Unknown"
	}
}

// EventTypes returns every available event type in declaration order.
func EventTypes() []EventType {
	types := make([]EventType, 0, int(_event_type_end)-1)
	for t := _event_type_beg + 1; t < _event_type_end; t++ {
		types = append(types, t)
	}
	return types
}
