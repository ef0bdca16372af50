package bookmark

import (
	domain "bookmark-api/internal/domain/bookmark"
)

func fromDBModel(model *Bookmark) *domain.Bookmark {
	return &domain.Bookmark{
		UUID:        model.UUID,
		UserID:      model.UserID,
		Title:       model.Title,
		Link:        model.Link,
		Description: model.Description,
		FileKey:     model.FileKey,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func fromDBModels(models Bookmarks) domain.Bookmarks {
	bms := make(domain.Bookmarks, len(models))
	for idx, b := range models {
		bms[idx] = fromDBModel(b)
	}

	return bms
}
