package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionAdjacentSteps(t *testing.T) {
	for i := 0; i < len(Pipeline)-1; i++ {
		assert.True(t, CanTransition(Pipeline[i], Pipeline[i+1]),
			"%s -> %s should be legal", Pipeline[i], Pipeline[i+1])
	}
}

func TestCanTransitionRejectsSkipsAndBackward(t *testing.T) {
	for i := range Pipeline {
		for j := range Pipeline {
			if j == i+1 {
				continue
			}
			assert.False(t, CanTransition(Pipeline[i], Pipeline[j]),
				"%s -> %s should be illegal", Pipeline[i], Pipeline[j])
		}
	}
}

func TestCanTransitionCancel(t *testing.T) {
	for _, s := range Pipeline {
		assert.True(t, CanTransition(s, StatusCanceled), "%s -> CANCELED", s)
	}
	assert.False(t, CanTransition(StatusCanceled, StatusCanceled))
	assert.False(t, CanTransition(StatusCanceled, StatusConfigReceived))
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.False(t, CanTransition(Status("BOGUS"), StatusOemAllocated))
	assert.False(t, CanTransition(StatusConfigReceived, Status("BOGUS")))
	assert.False(t, CanTransition(Status("BOGUS"), StatusCanceled))
}

func TestAtOrPast(t *testing.T) {
	assert.True(t, AtOrPast(StatusDelivered, StatusOemInTransit))
	assert.True(t, AtOrPast(StatusOemInTransit, StatusOemInTransit))
	assert.False(t, AtOrPast(StatusOemProduction, StatusOemInTransit))
	assert.False(t, AtOrPast(StatusCanceled, StatusConfigReceived))
}
