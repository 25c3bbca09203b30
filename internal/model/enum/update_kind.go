package enum

// UpdateKind identifies the typed record carried by a stream event.
type UpdateKind uint8

const (
	_update_kind_beg UpdateKind = iota
	UpdateKindAccount
	UpdateKindMarket
	UpdateKindDealConfirmation
	UpdateKindPosition
	UpdateKindWorkingOrder
	UpdateKindChartTick
	UpdateKindConsolidatedChart
	_update_kind_end
)

func (k UpdateKind) IsAvailable() bool {
	return k > _update_kind_beg && k < _update_kind_end
}

func (k UpdateKind) String() string {
	switch k {
	case UpdateKindAccount:
		return "AccountUpdate"
	case UpdateKindMarket:
		return "MarketUpdate"
	case UpdateKindDealConfirmation:
		return "DealConfirmation"
	case UpdateKindPosition:
		return "PositionUpdate"
	case UpdateKindWorkingOrder:
		return "WorkingOrderUpdate"
	case UpdateKindChartTick:
		return "ChartTickUpdate"
	case UpdateKindConsolidatedChart:
		return "ConsolidatedChartUpdate"
	default:
		return "Unknown"
	}
}

// UpdateKinds returns every available kind in declaration order.
func UpdateKinds() []UpdateKind {
	kinds := make([]UpdateKind, 0, int(_update_kind_end)-1)
	for k := _update_kind_beg + 1; k < _update_kind_end; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
