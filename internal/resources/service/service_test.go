package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hacklabconnect/internal/resources/store"
	id "hacklabconnect/pkg/domain"
	dErrors "hacklabconnect/pkg/domain-errors"
)

func TestCreateDoesNotDeduplicate(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewInMemory())
	creator := id.UserID(uuid.New())
	input := CreateInput{
		CommunityID: id.CommunityID(uuid.New()),
		Title:       "Go proverbs",
		Category:    "talk",
		URL:         "https://go-proverbs.github.io",
	}

	first, err := svc.Create(ctx, creator, input)
	require.NoError(t, err)
	second, err := svc.Create(ctx, creator, input)
	require.NoError(t, err)

	// Identical submissions are distinct records on purpose.
	assert.NotEqual(t, first.ID, second.ID)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListFiltersByCommunity(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewInMemory())
	creator := id.UserID(uuid.New())
	target := id.CommunityID(uuid.New())
	other := id.CommunityID(uuid.New())

	_, err := svc.Create(ctx, creator, CreateInput{CommunityID: target, Title: "a", Category: "doc", URL: "https://a"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, creator, CreateInput{CommunityID: other, Title: "b", Category: "doc", URL: "https://b"})
	require.NoError(t, err)

	filtered, err := svc.List(ctx, &target)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "a", filtered[0].Title)
}

func TestDeleteMissing(t *testing.T) {
	svc := New(store.NewInMemory())
	err := svc.Delete(context.Background(), id.ResourceID(uuid.New()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
