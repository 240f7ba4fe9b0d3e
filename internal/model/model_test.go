package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotValue(t *testing.T) {
	snap := NewSnapshot("toilet")
	snap.Readings[VariableGas] = Reading{Variable: VariableGas, Value: 512.5}

	v, ok := snap.Value(VariableGas)
	assert.True(t, ok)
	assert.Equal(t, 512.5, v)

	_, ok = snap.Value(VariableLux)
	assert.False(t, ok)
	assert.Nil(t, snap.ValuePtr(VariableLux))
	assert.Equal(t, 512.5, *snap.ValuePtr(VariableGas))
}

func TestParseVariables(t *testing.T) {
	got := ParseVariables([]string{"mq2", "lux"})
	assert.Equal(t, []Variable{VariableGas, VariableLux}, got)
	assert.Equal(t, "ASAP/GAS", got[0].Label())
	assert.Equal(t, "co2", Variable("co2").Label())
}

func TestViewerSessionHeartbeat(t *testing.T) {
	now := time.Now()
	s := &ViewerSession{SessionID: "s-1", LastHeartbeat: now.Add(-2 * time.Minute)}

	assert.False(t, s.CheckHeartbeat(now, time.Minute, 2))
	assert.Equal(t, 1, s.Missed())
	assert.True(t, s.CheckHeartbeat(now, time.Minute, 2))

	s.UpdateHeartbeat()
	assert.Equal(t, 0, s.Missed())
	assert.False(t, s.CheckHeartbeat(time.Now(), time.Minute, 2))
}
