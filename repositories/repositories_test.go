package repositories

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/crud-audit/database"
	"github.com/blogem/crud-audit/models"
	"github.com/blogem/crud-audit/userctx"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// Initialize test database using the actual migration system
	db, err := database.InitializeDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to initialize test database")
	t.Cleanup(func() { db.Close() })

	return db
}

func TestTeamRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTeamRepository(db)
	ctx := userctx.SetActorID(context.Background(), 42)

	// Create
	member := &models.TeamMember{
		Name:   "Test User",
		Email:  "test.user@example.com",
		Active: true,
	}
	require.NoError(t, repo.Create(ctx, member))
	assert.NotZero(t, member.ID, "expected member ID to be set after creation")
	assert.Equal(t, int64(42), member.CreatedBy)

	// GetByID
	retrieved, err := repo.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, member.Name, retrieved.Name)
	assert.Equal(t, int64(42), retrieved.CreatedBy)
	assert.Nil(t, retrieved.ModifiedAt)

	// GetByEmail is case-insensitive
	byEmail, err := repo.GetByEmail(ctx, "TEST.USER@example.com")
	require.NoError(t, err)
	assert.Equal(t, member.ID, byEmail.ID)

	// GetAll
	members, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	// Update
	member.Name = "Updated Name"
	require.NoError(t, repo.Update(ctx, member))

	updated, err := repo.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Name", updated.Name)
	assert.Equal(t, int64(42), updated.ModifiedBy)
	assert.NotNil(t, updated.ModifiedAt)

	// Count
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Delete
	require.NoError(t, repo.Delete(ctx, member.ID))

	_, err = repo.GetByID(ctx, member.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTeamRepositoryNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Update(ctx, &models.TeamMember{ID: 99, Name: "ghost"}), models.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 99), models.ErrNotFound)

	_, err := repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, "auth0|abc", "Jane")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	again, err := repo.FindOrCreate(ctx, "auth0|abc", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "same subject maps to the same user")
	assert.Equal(t, "Jane Doe", again.DisplayName)

	other, err := repo.FindOrCreate(ctx, "auth0|xyz", "Joe")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc", got.Subject)

	_, err = repo.FindOrCreate(ctx, "", "nobody")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAuditRepositoryAppendAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	records := []*models.AuditRecord{
		{ActorID: 42, EntityKind: "Widget", EntityID: 7, EntityLabel: "Blue Widget", Action: models.ActionCreate, Message: `Added Widget "Blue Widget".`},
		{ActorID: 42, EntityKind: "Widget", EntityID: 7, EntityLabel: "Blue Widget", Action: models.ActionDelete, Message: `Deleted Widget "Blue Widget".`},
		{ActorID: 5, EntityKind: "Gadget", EntityID: 1, EntityLabel: "Red Gadget", Action: models.ActionUpdate, Message: `Changed {} for Gadget "Red Gadget".`},
	}
	for _, record := range records {
		require.NoError(t, repo.Append(ctx, record))
		assert.NotZero(t, record.ID)
		assert.False(t, record.Timestamp.IsZero(), "store assigns the timestamp")
	}

	all, err := repo.List(ctx, models.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, records[2].ID, all[0].ID, "newest first")

	widget, err := repo.List(ctx, models.AuditFilter{EntityKind: "Widget", EntityID: 7})
	require.NoError(t, err)
	require.Len(t, widget, 2)
	assert.Equal(t, models.ActionDelete, widget[0].Action)
	assert.Equal(t, `Deleted Widget "Blue Widget".`, widget[0].Message)
	assert.Equal(t, "Blue Widget", widget[0].EntityLabel)

	byActor, err := repo.List(ctx, models.AuditFilter{ActorID: 5})
	require.NoError(t, err)
	assert.Len(t, byActor, 1)

	creates, err := repo.List(ctx, models.AuditFilter{Action: models.ActionCreate})
	require.NoError(t, err)
	assert.Len(t, creates, 1)

	limited, err := repo.List(ctx, models.AuditFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestAuditRepositoryRejectsInvalidRecords(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	err := repo.Append(ctx, &models.AuditRecord{EntityKind: "Widget", EntityID: 7, Action: models.ActionCreate})
	assert.ErrorIs(t, err, models.ErrMissingActor)

	err = repo.Append(ctx, &models.AuditRecord{ActorID: 1, EntityKind: "Widget", EntityID: 7})
	assert.ErrorIs(t, err, models.ErrValidation)

	all, err := repo.List(ctx, models.AuditFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAuditRepositoryJoinsTransaction(t *testing.T) {
	db := setupTestDB(t)
	teamRepo := NewTeamRepository(db)
	auditRepo := NewAuditRepository(db)
	ctx := userctx.SetActorID(context.Background(), 42)

	failed := assert.AnError
	err := database.RunInTx(ctx, db, func(ctx context.Context) error {
		member := &models.TeamMember{Name: "Rolled Back", Active: true}
		require.NoError(t, teamRepo.Create(ctx, member))
		require.NoError(t, auditRepo.Append(ctx, models.NewAuditRecord(42, models.ActionCreate, member, "")))
		return failed
	})
	assert.ErrorIs(t, err, failed)

	count, err := teamRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	records, err := auditRepo.List(ctx, models.AuditFilter{})
	require.NoError(t, err)
	assert.Empty(t, records, "audit record rolls back with the mutation")
}
