package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/usecase"
)

func TestLabelUseCase_CreateLabel(t *testing.T) {
	h := newHarness(t)

	label, err := h.labelUC.CreateLabel(context.Background(), owner, "  Groceries ")
	require.NoError(t, err)

	assert.NotEmpty(t, label.ID)
	assert.Equal(t, "Groceries", label.Name)
	assert.Equal(t, owner, label.OwnerID)

	events := h.store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypeLabelCreated, events[0].EventType)
	assert.Equal(t, domain.AggregateTypeLabel, events[0].AggregateType)
}

func TestLabelUseCase_CreateLabel_Errors(t *testing.T) {
	h := newHarness(t)
	h.seedLabel(owner, "l1", "Rent")

	_, err := h.labelUC.CreateLabel(context.Background(), owner, "Rent")
	assert.ErrorIs(t, err, domain.ErrLabelExists)

	_, err = h.labelUC.CreateLabel(context.Background(), owner, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidLabelName)

	// Names are unique per owner only.
	_, err = h.labelUC.CreateLabel(context.Background(), otherOwner, "Rent")
	assert.NoError(t, err)

	assert.Len(t, h.store.Events(), 1)
}

func TestLabelUseCase_RenameLabel(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedLabel(owner, "l1", "Rent")
	h.seedLabel(owner, "l2", "Food")

	renamed, err := h.labelUC.RenameLabel(ctx, owner, "l1", "Housing")
	require.NoError(t, err)
	assert.Equal(t, "Housing", renamed.Name)

	_, err = h.labelUC.RenameLabel(ctx, owner, "l1", "Food")
	assert.ErrorIs(t, err, domain.ErrLabelExists)

	_, err = h.labelUC.RenameLabel(ctx, otherOwner, "l1", "Anything")
	assert.ErrorIs(t, err, domain.ErrLabelNotFound)

	unchanged, err := h.labelUC.RenameLabel(ctx, owner, "l2", "Food")
	require.NoError(t, err)
	assert.Equal(t, "Food", unchanged.Name)

	require.Len(t, h.store.Events(), 1)
}

func TestLabelUseCase_DeleteLabel_InUse(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedBucket(owner, "cash", 100, true)
	h.seedLabel(owner, "l1", "Rent")

	entry, err := h.movementUC.RecordDirectMovement(ctx, usecase.DirectMovementInput{
		OwnerID:   owner,
		BucketID:  "cash",
		Direction: domain.DirectionDebit,
		Amount:    900,
		LabelID:   ptr("l1"),
	})
	require.NoError(t, err)

	err = h.labelUC.DeleteLabel(ctx, owner, "l1")
	assert.ErrorIs(t, err, domain.ErrLabelInUse)
	assert.Len(t, h.store.Labels(owner), 1)

	require.NoError(t, h.movementUC.DeleteDirectMovement(ctx, owner, entry.ID))
	require.NoError(t, h.labelUC.DeleteLabel(ctx, owner, "l1"))
	assert.Empty(t, h.store.Labels(owner))
}

func TestLabelUseCase_DeleteLabel_NotFound(t *testing.T) {
	h := newHarness(t)

	err := h.labelUC.DeleteLabel(context.Background(), owner, "missing")
	assert.ErrorIs(t, err, domain.ErrLabelNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLabelUseCase_ListLabels_OrderedByName(t *testing.T) {
	h := newHarness(t)
	h.seedLabel(owner, "l1", "Travel")
	h.seedLabel(owner, "l2", "Bills")
	h.seedLabel(owner, "l3", "Food")
	h.seedLabel(otherOwner, "l4", "Aaa")

	labels, err := h.labelUC.ListLabels(context.Background(), owner)
	require.NoError(t, err)

	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.Name
	}
	assert.Equal(t, []string{"Bills", "Food", "Travel"}, names)
}
