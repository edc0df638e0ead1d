package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"topicfeed/internal/domain/entity"
	"topicfeed/internal/infra/adapter/persistence/postgres"
	"topicfeed/internal/repository"
)

var groupCols = []string{"id", "name", "description", "created_at"}

/* ──────────────────────────────── 1. FindOrCreate ──────────────────────────────── */

func TestGroupRepo_FindOrCreate_Inserts(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO groups .* ON CONFLICT \(name\) DO NOTHING RETURNING`).
		WithArgs("Topic A", "d").
		WillReturnRows(sqlmock.NewRows(groupCols).AddRow(int64(1), "Topic A", "d", now))

	repo := postgres.NewGroupRepo(db)
	got, created, err := repo.FindOrCreate(context.Background(), "Topic A", "d")
	if err != nil {
		t.Fatalf("FindOrCreate err=%v", err)
	}
	if !created {
		t.Error("created = false, want true")
	}
	want := entity.Group{ID: 1, Name: "Topic A", Description: "d", CreatedAt: now}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGroupRepo_FindOrCreate_ConflictFallsBackToLookup(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO groups`)).
		WithArgs("Topic A", "another framing").
		WillReturnRows(sqlmock.NewRows(groupCols)) // conflict: no row returned
	mock.ExpectQuery(regexp.QuoteMeta(`FROM groups WHERE name = $1`)).
		WithArgs("Topic A").
		WillReturnRows(sqlmock.NewRows(groupCols).AddRow(int64(1), "Topic A", "first framing", now))

	repo := postgres.NewGroupRepo(db)
	got, created, err := repo.FindOrCreate(context.Background(), "Topic A", "another framing")
	if err != nil {
		t.Fatalf("FindOrCreate err=%v", err)
	}
	if created {
		t.Error("created = true, want false")
	}
	if got.Description != "first framing" {
		t.Errorf("description overwritten: %q", got.Description)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGroupRepo_FindOrCreate_InsertError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	dbErr := errors.New("deadlock detected")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO groups`)).WillReturnError(dbErr)

	repo := postgres.NewGroupRepo(db)
	_, _, err := repo.FindOrCreate(context.Background(), "Topic A", "d")
	if !errors.Is(err, dbErr) {
		t.Fatalf("want %v, got %v", dbErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

/* ──────────────────────────────── 2. Get / stats ──────────────────────────────── */

func TestGroupRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM groups`)).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	repo := postgres.NewGroupRepo(db)
	got, err := repo.Get(context.Background(), 9)
	if err != nil || got != nil {
		t.Fatalf("want (nil, nil), got (%v, %v)", got, err)
	}
}

func TestGroupRepo_GetWithStats(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`AS followers_count FROM groups g WHERE g.id = $1`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(append(groupCols, "news_count", "followers_count")).
			AddRow(int64(2), "Topic B", "", now, int64(12), int64(3)))

	repo := postgres.NewGroupRepo(db)
	got, err := repo.GetWithStats(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetWithStats err=%v", err)
	}
	want := &repository.GroupWithStats{
		Group: entity.Group{ID: 2, Name: "Topic B", CreatedAt: now},
		Stats: entity.GroupStats{NewsCount: 12, FollowersCount: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGroupRepo_ListWithStatsPaginated(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY g.id ASC LIMIT $1 OFFSET $2`)).
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows(append(groupCols, "news_count", "followers_count")).
			AddRow(int64(21), "G21", "", now, int64(1), int64(0)).
			AddRow(int64(22), "G22", "", now, int64(0), int64(5)))

	repo := postgres.NewGroupRepo(db)
	got, err := repo.ListWithStatsPaginated(context.Background(), 20, 10)
	if err != nil {
		t.Fatalf("ListWithStatsPaginated err=%v", err)
	}
	if len(got) != 2 || got[1].Stats.FollowersCount != 5 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

/* ──────────────────────────────── 3. ListByNewsIDs ──────────────────────────────── */

func TestGroupRepo_ListByNewsIDs(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE gn.news_id = ANY($1)`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"news_id", "id", "name", "description", "created_at"}).
			AddRow(int64(1), int64(10), "G", "", now).
			AddRow(int64(1), int64(11), "H", "", now).
			AddRow(int64(2), int64(11), "H", "", now))

	repo := postgres.NewGroupRepo(db)
	got, err := repo.ListByNewsIDs(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("ListByNewsIDs err=%v", err)
	}
	if len(got[1]) != 2 || got[1][0].Name != "G" || got[1][1].Name != "H" {
		t.Errorf("news 1 groups = %+v", got[1])
	}
	if len(got[2]) != 1 {
		t.Errorf("news 2 groups = %+v", got[2])
	}
	if _, ok := got[3]; ok {
		t.Error("news 3 has no links and must be absent")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGroupRepo_ListByNewsIDs_Empty(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	repo := postgres.NewGroupRepo(db)
	got, err := repo.ListByNewsIDs(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("want empty map, got %v, %v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
