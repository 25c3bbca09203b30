package enum

// Scale is the aggregation period of a consolidated chart bar.
type Scale uint8

const (
	_scale_beg Scale = iota
	ScaleOneSecond
	ScaleOneMinute
	ScaleFiveMinutes
	ScaleOneHour
	_scale_end
)

var scaleSymbols = [...]string{
	ScaleOneSecond:   "one_second",
	ScaleOneMinute:   "one_minute",
	ScaleFiveMinutes: "five_minutes",
	ScaleOneHour:     "one_hour",
}

var scaleTokens = [...]string{
	ScaleOneSecond:   "SECOND",
	ScaleOneMinute:   "1MINUTE",
	ScaleFiveMinutes: "5MINUTE",
	ScaleOneHour:     "HOUR",
}

func (s Scale) IsAvailable() bool {
	return s > _scale_beg && s < _scale_end
}

// String returns the canonical scale symbol, e.g. "five_minutes".
func (s Scale) String() string {
	if !s.IsAvailable() {
		return ""
	}
	return scaleSymbols[s]
}

// Token returns the transport token used in topic keys, e.g. "5MINUTE".
func (s Scale) Token() string {
	if !s.IsAvailable() {
		return ""
	}
	return scaleTokens[s]
}

// ParseScale maps a canonical symbol to its scale.
func ParseScale(symbol string) (Scale, bool) {
	for s := _scale_beg + 1; s < _scale_end; s++ {
		if scaleSymbols[s] == symbol {
			return s, true
		}
	}
	return 0, false
}

// ParseScaleToken maps a transport token to its scale.
func ParseScaleToken(token string) (Scale, bool) {
	for s := _scale_beg + 1; s < _scale_end; s++ {
		if scaleTokens[s] == token {
			return s, true
		}
	}
	return 0, false
}

func (s Scale) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
