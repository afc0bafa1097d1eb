package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
)

func TestActivityStore_AddNote(t *testing.T) {
	ctx := context.Background()

	t.Run("appends a note entry", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)

		note, err := NewActivityStore(s).AddNote(ctx, tc, p.ProjectID, "Walkthrough", "Client approved speaker locations")
		require.NoError(t, err)
		require.Equal(t, models.ActivityNoteAdded, note.Type)
		require.Equal(t, "Walkthrough", note.Title)
		require.Equal(t, "Client approved speaker locations", note.Description)
		require.Equal(t, tc.ActorID, note.CreatedBy)
		require.False(t, note.CreatedAt.IsZero())
	})

	t.Run("empty title defaults", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)

		note, err := NewActivityStore(s).AddNote(ctx, tc, p.ProjectID, "", "just a note")
		require.NoError(t, err)
		require.Equal(t, "Note added", note.Title)
	})

	t.Run("unknown project fails", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()

		_, err := NewActivityStore(s).AddNote(ctx, tc, uuid.Must(uuid.NewV7()), "", "nowhere")
		require.ErrorIs(t, err, store.ErrProjectNotFound)
	})
}

func TestActivityStore_List(t *testing.T) {
	ctx := context.Background()

	t.Run("newest first", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)
		activities := NewActivityStore(s)

		for _, desc := range []string{"one", "two", "three"} {
			_, err := activities.AddNote(ctx, tc, p.ProjectID, "", desc)
			require.NoError(t, err)
		}

		listed, err := activities.List(ctx, tc, p.ProjectID, 0)
		require.NoError(t, err)
		require.Len(t, listed, 4)
		require.Equal(t, "three", listed[0].Description)
		require.Equal(t, "one", listed[2].Description)
		require.Equal(t, "Project created", listed[3].Title)
	})

	t.Run("limit truncates", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)
		activities := NewActivityStore(s)

		for i := 0; i < 5; i++ {
			_, err := activities.AddNote(ctx, tc, p.ProjectID, "", "note")
			require.NoError(t, err)
		}

		listed, err := activities.List(ctx, tc, p.ProjectID, 2)
		require.NoError(t, err)
		require.Len(t, listed, 2)
	})

	t.Run("zero limit defaults to 50", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)
		activities := NewActivityStore(s)

		for i := 0; i < 60; i++ {
			_, err := activities.AddNote(ctx, tc, p.ProjectID, "", "note")
			require.NoError(t, err)
		}

		listed, err := activities.List(ctx, tc, p.ProjectID, 0)
		require.NoError(t, err)
		require.Len(t, listed, 50)
	})

	t.Run("cross tenant read is not found", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)

		_, err := NewActivityStore(s).List(ctx, testTenant(), p.ProjectID, 10)
		require.ErrorIs(t, err, store.ErrProjectNotFound)
	})
}
