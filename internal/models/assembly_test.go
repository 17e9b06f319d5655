package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAssemblyStatus(t *testing.T) {
	require.Equal(t, AssemblyInProgress, ParseAssemblyStatus("in_progress"))
	require.Equal(t, AssemblyCompleted, ParseAssemblyStatus("completed"))
	require.Equal(t, AssemblyCancelled, ParseAssemblyStatus("cancelled"))
	require.Equal(t, AssemblyScheduled, ParseAssemblyStatus("scheduled"))
	require.Equal(t, AssemblyScheduled, ParseAssemblyStatus(""))
	require.Equal(t, AssemblyScheduled, ParseAssemblyStatus("garbage"))
}

func TestAssemblyStatusTransitions(t *testing.T) {
	require.True(t, AssemblyScheduled.CanTransitionTo(AssemblyInProgress))
	require.True(t, AssemblyScheduled.CanTransitionTo(AssemblyCancelled))
	require.False(t, AssemblyScheduled.CanTransitionTo(AssemblyCompleted))

	require.True(t, AssemblyInProgress.CanTransitionTo(AssemblyCompleted))
	require.True(t, AssemblyInProgress.CanTransitionTo(AssemblyCancelled))
	require.False(t, AssemblyInProgress.CanTransitionTo(AssemblyScheduled))

	require.False(t, AssemblyCompleted.CanTransitionTo(AssemblyInProgress))
	require.False(t, AssemblyCancelled.CanTransitionTo(AssemblyInProgress))
}

func TestInProgressItemSingle(t *testing.T) {
	asm := &UpcomingAssembly{
		AgendaItems: []AgendaItem{
			{Order: 1, Status: AgendaItemCompleted},
			{Order: 2, Status: AgendaItemInProgress},
			{Order: 3, Status: AgendaItemPending},
		},
	}

	item, err := asm.InProgressItem()
	require.NoError(t, err)
	require.NotNil(t, item)
	require.Equal(t, 2, item.Order)
}

func TestInProgressItemNone(t *testing.T) {
	asm := &UpcomingAssembly{
		AgendaItems: []AgendaItem{
			{Order: 1, Status: AgendaItemCompleted},
			{Order: 2, Status: AgendaItemPending},
		},
	}

	item, err := asm.InProgressItem()
	require.NoError(t, err)
	require.Nil(t, item)
}

func TestInProgressItemDuplicateIsError(t *testing.T) {
	asm := &UpcomingAssembly{
		AgendaItems: []AgendaItem{
			{Order: 1, Status: AgendaItemInProgress},
			{Order: 2, Status: AgendaItemInProgress},
		},
	}

	_, err := asm.InProgressItem()
	require.ErrorIs(t, err, ErrInconsistentAgenda)
}

func TestNextPendingItem(t *testing.T) {
	asm := &UpcomingAssembly{
		AgendaItems: []AgendaItem{
			{Order: 1, Status: AgendaItemCompleted},
			{Order: 2, Status: AgendaItemCompleted},
			{Order: 3, Status: AgendaItemPending},
		},
	}
	require.Equal(t, 3, asm.NextPendingItem().Order)

	done := &UpcomingAssembly{
		AgendaItems: []AgendaItem{{Order: 1, Status: AgendaItemCompleted}},
	}
	require.Nil(t, done.NextPendingItem())
}

func TestDefaultDecisionByItemType(t *testing.T) {
	require.Equal(t, "approved by majority", AgendaVoting.DefaultDecision())
	require.Equal(t, "discussion concluded", AgendaDiscussion.DefaultDecision())
	require.Equal(t, "discussion concluded", AgendaInformational.DefaultDecision())
	require.Equal(t, "discussion concluded", AgendaApproval.DefaultDecision())
}
