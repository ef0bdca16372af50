package bookmark

const (
	SelectBookmarksByUser = `
		SELECT id, user_id, title, link, description, file_key, created_at, updated_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	SelectBookmarkByUser = `
		SELECT id, user_id, title, link, description, file_key, created_at, updated_at
		FROM bookmarks
		WHERE id = $1 AND user_id = $2
	`
	InsertBookmark = `
		INSERT INTO bookmarks (user_id, title, link, description, file_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING
		  id, user_id, title, link, description, file_key, created_at, updated_at
	`
	// NULL parameters keep the current column value.
	UpdateBookmarkByID = `
		UPDATE bookmarks
		SET title = COALESCE($2, title),
		    link = COALESCE($3, link),
		    description = COALESCE($4, description),
		    file_key = COALESCE($5, file_key),
		    updated_at = now()
		WHERE id = $1
		RETURNING
		  id, user_id, title, link, description, file_key, created_at, updated_at
	`
	DeleteBookmarkByID = `
		DELETE FROM bookmarks
		WHERE id = $1
		RETURNING
		  id, user_id, title, link, description, file_key, created_at, updated_at
	`
)
