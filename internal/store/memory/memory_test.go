package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proviewz/internal/models"
	"proviewz/internal/store"
)

func TestPostStoreVersioning(t *testing.T) {
	s := NewPostStore()
	ctx := context.Background()

	p, err := s.Create(ctx, &models.Post{Title: "t", AuthorID: uuid.New(), Category: "audio"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.Version)
	assert.NotNil(t, p.Likes)

	stale := p.Clone()
	p.Title = "changed"
	saved, err := s.Save(ctx, p)
	require.NoError(t, err)
	assert.EqualValues(t, 2, saved.Version)

	_, err = s.Save(ctx, stale)
	assert.ErrorIs(t, err, store.ErrConflict)

	stale.ID = uuid.New()
	_, err = s.Save(ctx, stale)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostStoreReturnsCopies(t *testing.T) {
	s := NewPostStore()
	ctx := context.Background()

	p, _ := s.Create(ctx, &models.Post{Title: "t", AuthorID: uuid.New()})
	got, _ := s.FindByID(ctx, p.ID)
	got.Likes = append(got.Likes, uuid.New())
	got.Title = "mutated"

	again, _ := s.FindByID(ctx, p.ID)
	assert.Equal(t, "t", again.Title)
	assert.Empty(t, again.Likes)
}

func TestPostStoreSaveKeepsAuthor(t *testing.T) {
	s := NewPostStore()
	ctx := context.Background()

	author := uuid.New()
	p, _ := s.Create(ctx, &models.Post{Title: "t", AuthorID: author})
	p.AuthorID = uuid.New()
	saved, err := s.Save(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, author, saved.AuthorID)
}

func TestPostStoreListAndDelete(t *testing.T) {
	s := NewPostStore()
	ctx := context.Background()

	a, b := uuid.New(), uuid.New()
	p1, _ := s.Create(ctx, &models.Post{Title: "1", AuthorID: a, Category: "audio"})
	s.Create(ctx, &models.Post{Title: "2", AuthorID: b, Category: "audio"})
	s.Create(ctx, &models.Post{Title: "3", AuthorID: a, Category: "laptops"})

	all, _ := s.List(ctx, store.PostFilter{})
	assert.Len(t, all, 3)

	mine, _ := s.List(ctx, store.PostFilter{AuthorID: a})
	assert.Len(t, mine, 2)

	audio, _ := s.List(ctx, store.PostFilter{AuthorID: a, Category: "audio"})
	require.Len(t, audio, 1)
	assert.Equal(t, p1.ID, audio[0].ID)

	require.NoError(t, s.Delete(ctx, p1.ID))
	assert.ErrorIs(t, s.Delete(ctx, p1.ID), store.ErrNotFound)
	gone, err := s.FindByID(ctx, p1.ID)
	assert.NoError(t, err)
	assert.Nil(t, gone)
}

func TestNotificationStore(t *testing.T) {
	s := NewNotificationStore()
	ctx := context.Background()

	recipient, sender := uuid.New(), uuid.New()
	first, err := s.Create(ctx, &models.Notification{RecipientID: recipient, SenderID: sender, Type: models.NotificationComment, Read: true})
	require.NoError(t, err)
	assert.False(t, first.Read, "create always stores unread")
	second, _ := s.Create(ctx, &models.Notification{RecipientID: recipient, SenderID: sender, Type: models.NotificationRating})
	s.Create(ctx, &models.Notification{RecipientID: sender, SenderID: recipient, Type: models.NotificationRating})

	list, _ := s.ListByRecipient(ctx, recipient)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	n, _ := s.CountUnread(ctx, recipient)
	assert.Equal(t, 2, n)

	marked, err := s.MarkRead(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, marked.Read)

	n, _ = s.CountUnread(ctx, recipient)
	assert.Equal(t, 1, n)

	_, err = s.MarkRead(ctx, uuid.New())
	assert.True(t, errors.Is(err, store.ErrNotFound))

	found, _ := s.FindByID(ctx, first.ID)
	require.NotNil(t, found)
	assert.True(t, found.Read)
}

func TestUserStore(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()

	u, err := s.Create(ctx, &models.User{Email: "a@example.com", Name: "A"}, "secret")
	require.NoError(t, err)
	assert.True(t, s.CheckPassword(u, "secret"))
	assert.False(t, s.CheckPassword(u, "nope"))

	_, err = s.Create(ctx, &models.User{Email: "A@example.com", Name: "dup"}, "x")
	assert.ErrorIs(t, err, store.ErrDuplicate)

	found, _ := s.FindByEmail(ctx, "a@example.com")
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)

	found.Name = "Renamed"
	updated, err := s.Update(ctx, found, "")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, s.CheckPassword(updated, "secret"))

	updated, err = s.Update(ctx, updated, "changed")
	require.NoError(t, err)
	assert.True(t, s.CheckPassword(updated, "changed"))

	require.NoError(t, s.Delete(ctx, u.ID))
	assert.ErrorIs(t, s.Delete(ctx, u.ID), store.ErrNotFound)
	missing, _ := s.FindByID(ctx, u.ID)
	assert.Nil(t, missing)
}

func TestUserStoreFindByIDs(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()

	a, err := s.Create(ctx, &models.User{Email: "a@example.com", Name: "A"}, "secret")
	require.NoError(t, err)
	b, err := s.Create(ctx, &models.User{Email: "b@example.com", Name: "B"}, "secret")
	require.NoError(t, err)

	got, err := s.FindByIDs(ctx, []uuid.UUID{b.ID, uuid.New(), a.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, "A", got[1].Name)

	none, err := s.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
