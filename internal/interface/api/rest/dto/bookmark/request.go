package bookmark

type (
	// CreateRequest binds from JSON or from the text fields of a multipart form.
	CreateRequest struct {
		Title       string  `json:"title" form:"title"`
		Link        *string `json:"link" form:"link"`
		Description *string `json:"description" form:"description"`
		FileKey     *string `json:"file_key" form:"file_key"`
	}
	UpdateRequest struct {
		ID          string  `json:"id"`
		Title       *string `json:"title"`
		Link        *string `json:"link"`
		Description *string `json:"description"`
		FileKey     *string `json:"file_key"`
	}
)
