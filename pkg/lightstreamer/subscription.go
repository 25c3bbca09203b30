package lightstreamer

import (
	"strings"
	"sync/atomic"
)

// Mode is the subscription mode token sent to the server.
type Mode string

const (
	ModeMerge    Mode = "MERGE"
	ModeDistinct Mode = "DISTINCT"
	ModeRaw      Mode = "RAW"
	ModeCommand  Mode = "COMMAND"
)

func (m Mode) valid() bool {
	switch m {
	case ModeMerge, ModeDistinct, ModeRaw, ModeCommand:
		return true
	default:
		return false
	}
}

// Subscription describes the items and fields to subscribe to.
type Subscription struct {
	Mode     Mode
	Items    []string
	Fields   []string
	Snapshot bool
	// MaxFrequency is the requested max update frequency, e.g. "1.0" or "unlimited".
	// Empty leaves the server default.
	MaxFrequency string
}

func (s Subscription) validate() error {
	if !s.Mode.valid() || len(s.Items) == 0 || len(s.Fields) == 0 {
		return ErrInvalidSubscription
	}
	for _, item := range s.Items {
		if len(item) == 0 || strings.ContainsAny(item, " \t") {
			return ErrInvalidSubscription
		}
	}
	for _, field := range s.Fields {
		if len(field) == 0 || strings.ContainsAny(field, " \t") {
			return ErrInvalidSubscription
		}
	}
	return nil
}

func (s Subscription) params(reqID, subID int) []param {
	params := []param{
		{"LS_reqId", itoa(reqID)},
		{"LS_op", opAdd},
		{"LS_subId", itoa(subID)},
		{"LS_mode", string(s.Mode)},
		{"LS_group", strings.Join(s.Items, " ")},
		{"LS_schema", strings.Join(s.Fields, " ")},
	}
	if s.Mode != ModeRaw {
		params = append(params, param{"LS_snapshot", boolToken(s.Snapshot)})
	}
	if len(s.MaxFrequency) != 0 {
		params = append(params, param{"LS_requested_max_frequency", s.MaxFrequency})
	}
	return params
}

// ItemUpdate is one push for one item.
type ItemUpdate struct {
	// ItemName is the item as passed in Subscription.Items.
	ItemName string
	// ItemPos is the 1-based position of the item.
	ItemPos int
	// Changed holds the fields carried by this push. Null values are omitted.
	Changed map[string]string
	// Fields holds the last known non-null value of every field of the item.
	Fields map[string]string
	// Snapshot is true while the server is still sending the initial snapshot.
	Snapshot bool
}

// Handler receives updates on the client read goroutine.
type Handler func(ItemUpdate)

type subscription struct {
	id      int
	def     Subscription
	handler Handler
	items   []itemState
	stopped atomic.Bool
}

type itemState struct {
	values []fieldValue
	eos    bool
}

func newSubscription(id int, def Subscription, handler Handler) *subscription {
	sub := &subscription{
		id:      id,
		def:     def,
		handler: handler,
		items:   make([]itemState, len(def.Items)),
	}
	for i := range sub.items {
		sub.items[i] = newItemState(len(def.Fields))
	}
	return sub
}

func newItemState(fields int) itemState {
	values := make([]fieldValue, fields)
	for i := range values {
		values[i].null = true
	}
	return itemState{values: values}
}

// apply merges a U payload into the item and builds the update to deliver.
func (s *subscription) apply(pos int, payload string) (ItemUpdate, error) {
	if pos < 1 || pos > len(s.items) {
		return ItemUpdate{}, ErrProtocol
	}
	item := &s.items[pos-1]
	changed, err := applyUpdate(item.values, payload)
	if err != nil {
		return ItemUpdate{}, err
	}

	update := ItemUpdate{
		ItemName: s.def.Items[pos-1],
		ItemPos:  pos,
		Changed:  make(map[string]string, len(changed)),
		Fields:   make(map[string]string, len(item.values)),
		Snapshot: s.def.Snapshot && !item.eos && s.def.Mode != ModeRaw,
	}
	for _, idx := range changed {
		if v := item.values[idx]; !v.null {
			update.Changed[s.def.Fields[idx]] = v.value
		}
	}
	for idx, v := range item.values {
		if !v.null {
			update.Fields[s.def.Fields[idx]] = v.value
		}
	}
	return update, nil
}

func (s *subscription) endOfSnapshot(pos int) {
	if pos >= 1 && pos <= len(s.items) {
		s.items[pos-1].eos = true
	}
}

func (s *subscription) clearSnapshot(pos int) {
	if pos >= 1 && pos <= len(s.items) {
		s.items[pos-1] = newItemState(len(s.def.Fields))
	}
}

func boolToken(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
