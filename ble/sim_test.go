package ble

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSim_ReadWrite(t *testing.T) {
	sim := NewSim()
	char := uuid.New()
	ctx := context.Background()

	_, err := sim.Read(ctx, char)
	assert.Error(t, err, "reading an unknown characteristic should fail")

	sim.SetValue(char, []byte{0x01})
	v, err := sim.Read(ctx, char)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, v)

	require.NoError(t, sim.Write(ctx, char, []byte{0x02}, true))
	v, err = sim.Read(ctx, char)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02}, v)
}

func TestSim_Notifications(t *testing.T) {
	sim := NewSim()
	char := uuid.New()

	got := make(chan []byte, 1)
	require.NoError(t, sim.Subscribe(char, func(data []byte) {
		got <- data
	}))

	sim.Push(char, []byte{0xAA})
	assert.Equal(t, []byte{0xAA}, <-got)

	require.NoError(t, sim.Unsubscribe(char))
	sim.Push(char, []byte{0xBB})
	select {
	case data := <-got:
		t.Fatalf("unexpected notification after unsubscribe: %x", data)
	default:
	}
}

func TestSim_OnWrite(t *testing.T) {
	sim := NewSim()
	led := uuid.New()
	button := uuid.New()

	// Echo scenario: any LED write presses the button.
	sim.OnWrite = func(char uuid.UUID, data []byte) {
		if char == led {
			sim.Push(button, []byte{0x01})
		}
	}

	got := make(chan []byte, 1)
	require.NoError(t, sim.Subscribe(button, func(data []byte) { got <- data }))
	require.NoError(t, sim.Write(context.Background(), led, []byte{0x01}, false))
	assert.Equal(t, []byte{0x01}, <-got)
}

func TestSim_Closed(t *testing.T) {
	sim := NewSim()
	char := uuid.New()
	sim.SetValue(char, []byte{0x01})
	sim.Close()

	ctx := context.Background()
	_, err := sim.Read(ctx, char)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.ErrorIs(t, sim.Write(ctx, char, nil, false), ErrNotConnected)
	assert.ErrorIs(t, sim.Subscribe(char, func([]byte) {}), ErrNotConnected)
}
