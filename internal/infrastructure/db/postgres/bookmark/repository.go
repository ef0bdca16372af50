package bookmark

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"bookmark-api/internal/domain/bookmark"
	"bookmark-api/internal/infrastructure/db/postgres"
)

var (
	// ErrUnknownOwner is returned when the owning user row no longer exists.
	ErrUnknownOwner = errors.New("bookmark owner does not exist")
	// ErrFileKeyInUse is returned when another bookmark already references the file key.
	ErrFileKeyInUse = errors.New("file key is referenced by another bookmark")
)

type Repository struct {
	db postgres.Querier
}

func NewRepository(db postgres.Querier) bookmark.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchBookmarks(ctx context.Context, userID bookmark.UUID) (bookmark.Bookmarks, error) {
	rows, err := r.db.Query(ctx, SelectBookmarksByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bms := make(Bookmarks, 0)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bms = append(bms, b)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(bms), nil
}

func (r *Repository) FetchBookmark(ctx context.Context, userID, id bookmark.UUID) (*bookmark.Bookmark, error) {
	return r.one(scanBookmark(r.db.QueryRow(ctx, SelectBookmarkByUser, id, userID)))
}

func (r *Repository) CreateBookmark(ctx context.Context, userID bookmark.UUID, d bookmark.Draft) (*bookmark.Bookmark, error) {
	b, err := scanBookmark(r.db.QueryRow(
		ctx,
		InsertBookmark,
		userID, d.Title, d.Link, d.Description, d.FileKey,
	))
	if err != nil {
		if postgres.IsPgForeignKeyViolation(err) {
			return nil, ErrUnknownOwner
		}
		if postgres.IsPgUniqueViolation(err) {
			return nil, ErrFileKeyInUse
		}
		return nil, err
	}

	return fromDBModel(b), nil
}

func (r *Repository) UpdateBookmark(ctx context.Context, p bookmark.Patch) (*bookmark.Bookmark, error) {
	b, err := scanBookmark(r.db.QueryRow(
		ctx,
		UpdateBookmarkByID,
		p.UUID, p.Title, p.Link, p.Description, p.FileKey,
	))
	if postgres.IsPgUniqueViolation(err) {
		return nil, ErrFileKeyInUse
	}

	return r.one(b, err)
}

func (r *Repository) DeleteBookmark(ctx context.Context, id bookmark.UUID) (*bookmark.Bookmark, error) {
	return r.one(scanBookmark(r.db.QueryRow(ctx, DeleteBookmarkByID, id)))
}

// one maps a single-row result, turning "no rows" into (nil, nil).
func (r *Repository) one(b *Bookmark, err error) (*bookmark.Bookmark, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(b), nil
}

func scanBookmark(row pgx.Row) (*Bookmark, error) {
	b := new(Bookmark)
	err := row.Scan(
		&b.UUID,
		&b.UserID,
		&b.Title,
		&b.Link,
		&b.Description,
		&b.FileKey,

		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}
