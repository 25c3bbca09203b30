package enum

// MergeMode controls whether the transport retains field state between pushes.
type MergeMode uint8

const (
	_merge_mode_beg MergeMode = iota
	// MergeModeMerge keeps the last known value of every field and replays it on each update.
	MergeModeMerge
	// MergeModeDistinct delivers each push independently.
	MergeModeDistinct
	_merge_mode_end
)

func (m MergeMode) IsAvailable() bool {
	return m > _merge_mode_beg && m < _merge_mode_end
}

// String returns the transport token of the mode.
func (m MergeMode) String() string {
	switch m {
	case MergeModeMerge:
		return "MERGE"
	case MergeModeDistinct:
		return "DISTINCT"
	default:
		return ""
	}
}
