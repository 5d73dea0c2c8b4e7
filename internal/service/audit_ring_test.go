package service

import (
	"fmt"
	"testing"

	"escrow-settlement-engine/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRing_AppendAndSnapshot(t *testing.T) {
	ring := NewAuditRing(5, zerolog.Nop())

	ring.Append(domain.AuditEvent{Actor: "a", Action: "one"})
	ring.Append(domain.AuditEvent{Actor: "a", Action: "two"})

	got := ring.Snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Action)
	assert.Equal(t, "two", got[1].Action)
	assert.False(t, got[0].TS.IsZero())
}

func TestAuditRing_EvictsOldestAtCapacity(t *testing.T) {
	ring := NewAuditRing(3, zerolog.Nop())

	for i := 0; i < 5; i++ {
		ring.Append(domain.AuditEvent{Action: fmt.Sprintf("ev%d", i)})
	}

	got := ring.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, "ev2", got[0].Action)
	assert.Equal(t, "ev3", got[1].Action)
	assert.Equal(t, "ev4", got[2].Action)
}

func TestAuditRing_GuardrailEventsFilter(t *testing.T) {
	ring := NewAuditRing(10, zerolog.Nop())

	ring.Append(domain.AuditEvent{Action: domain.AuditAmountGuardrail})
	ring.Append(domain.AuditEvent{Action: domain.AuditOrderCreated})
	ring.Append(domain.AuditEvent{Action: domain.AuditVelocityGuardrailWallet})
	ring.Append(domain.AuditEvent{Action: domain.AuditGuardrailPass})
	ring.Append(domain.AuditEvent{Action: domain.AuditSettlementResumed})

	got := ring.GuardrailEvents()
	require.Len(t, got, 3)
	assert.Equal(t, domain.AuditAmountGuardrail, got[0].Action)
	assert.Equal(t, domain.AuditVelocityGuardrailWallet, got[1].Action)
	assert.Equal(t, domain.AuditGuardrailPass, got[2].Action)
}

func TestAuditRing_DefaultCapacity(t *testing.T) {
	ring := NewAuditRing(0, zerolog.Nop())
	for i := 0; i < DefaultAuditCapacity+10; i++ {
		ring.Append(domain.AuditEvent{Action: "x"})
	}
	assert.Len(t, ring.Snapshot(), DefaultAuditCapacity)
}
