package stream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuestream/pkg/lightstreamer"
)

func TestItemErrorOf(t *testing.T) {
	overflow := &lightstreamer.OverflowError{Subscription: 1, Item: "MARKET:A.B", Lost: 3}

	var itemErr *ItemError
	require.ErrorAs(t, itemErrorOf(overflow), &itemErr)
	assert.Equal(t, "MARKET:A.B", itemErr.Item)
	assert.ErrorIs(t, itemErr, lightstreamer.ErrUpdatesLost)

	plain := errors.New("stalled")
	assert.Same(t, plain, itemErrorOf(plain))
}
