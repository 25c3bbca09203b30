package stream

import (
	"slices"

	"github.com/yanun0323/errors"

	"venuestream/internal/model"
	"venuestream/internal/model/enum"
	"venuestream/internal/topic"
	"venuestream/pkg/exception"
)

// Descriptor is an immutable subscription declaration built by a Builder.
type Descriptor struct {
	family    topic.Family
	keys      []topic.Key
	items     []string
	fields    []string
	mode      enum.MergeMode
	normalize normalizeFunc
}

func (d Descriptor) Family() topic.Family {
	return d.family
}

func (d Descriptor) Keys() []topic.Key {
	return slices.Clone(d.keys)
}

// Items returns the encoded topic keys in subscription order.
func (d Descriptor) Items() []string {
	return slices.Clone(d.items)
}

func (d Descriptor) Fields() []string {
	return slices.Clone(d.fields)
}

func (d Descriptor) Mode() enum.MergeMode {
	return d.mode
}

func (d Descriptor) valid() bool {
	return d.normalize != nil && len(d.items) != 0 && len(d.fields) != 0 && d.mode.IsAvailable()
}

func (d Descriptor) request(snapshot bool) Request {
	return Request{
		Mode:     d.mode,
		Items:    d.Items(),
		Fields:   d.Fields(),
		Snapshot: snapshot,
	}
}

// Builder produces descriptors for the supported update families.
type Builder struct {
	accounts AccountsProvider
}

// NewBuilder returns a builder resolving missing account lists through accounts.
// accounts may be nil when every call passes explicit account ids.
func NewBuilder(accounts AccountsProvider) *Builder {
	return &Builder{accounts: accounts}
}

// AccountBalances subscribes to balance figures. Empty accountIDs means every
// account of the active client.
func (b *Builder) AccountBalances(accountIDs []string) (Descriptor, error) {
	ids, err := b.resolveAccounts(accountIDs)
	if err != nil {
		return Descriptor{}, errors.Wrap(err, "build account balances")
	}
	return build(topic.FamilyAccount, ids, topic.Account, model.AccountFields, enum.MergeModeMerge)
}

func (b *Builder) MarketPrices(epics []string) (Descriptor, error) {
	return build(topic.FamilyMarket, epics, topic.Market, model.MarketFields, enum.MergeModeMerge)
}

// TradeEvents subscribes to deal confirmations, position and working order
// updates. Empty accountIDs means every account of the active client.
func (b *Builder) TradeEvents(accountIDs []string) (Descriptor, error) {
	ids, err := b.resolveAccounts(accountIDs)
	if err != nil {
		return Descriptor{}, errors.Wrap(err, "build trade events")
	}
	return build(topic.FamilyTrade, ids, topic.Trade, model.TradeFields, enum.MergeModeDistinct)
}

func (b *Builder) ChartTicks(epics []string) (Descriptor, error) {
	return build(topic.FamilyChartTick, epics, topic.ChartTick, model.ChartTickFields, enum.MergeModeDistinct)
}

// ChartCandles subscribes to consolidated bars of every epic at scale.
func (b *Builder) ChartCandles(epics []string, scale enum.Scale) (Descriptor, error) {
	if !scale.IsAvailable() {
		return Descriptor{}, errors.Wrap(exception.ErrInvalidArgument, "build chart candles").With("scale", scale)
	}
	keyOf := func(epic string) topic.Key { return topic.ChartCandle(epic, scale) }
	return build(topic.FamilyChartCandle, epics, keyOf, model.ConsolidatedChartFields, enum.MergeModeMerge)
}

func (b *Builder) resolveAccounts(accountIDs []string) ([]string, error) {
	if len(accountIDs) != 0 {
		return accountIDs, nil
	}
	if b == nil || b.accounts == nil {
		return nil, exception.ErrNoAccounts
	}
	refs := b.accounts.CurrentAccounts()
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	if len(ids) == 0 {
		return nil, exception.ErrNoAccounts
	}
	return ids, nil
}

func build(family topic.Family, ids []string, keyOf func(string) topic.Key, fields []string, mode enum.MergeMode) (Descriptor, error) {
	if len(ids) == 0 {
		return Descriptor{}, errors.Wrap(exception.ErrInvalidArgument, "build "+family.String()+" subscription: no identifiers")
	}

	d := Descriptor{
		family:    family,
		keys:      make([]topic.Key, 0, len(ids)),
		items:     make([]string, 0, len(ids)),
		fields:    slices.Clone(fields),
		mode:      mode,
		normalize: normalizers[family],
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		key := keyOf(id)
		item := topic.Encode(key)
		if len(item) == 0 {
			return Descriptor{}, errors.Wrap(exception.ErrInvalidArgument, "build "+family.String()+" subscription").With("id", id)
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		d.keys = append(d.keys, key)
		d.items = append(d.items, item)
	}
	return d, nil
}
