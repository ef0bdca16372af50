package rest

const (
	// auth
	RouteSignup = "/auth/signup"
	RouteLogin  = "/auth/login"

	// bookmarks
	RouteBookmark   = "/bookmark"
	RouteBookmarkID = RouteBookmark + "/:id"
	RouteUploadFile = "/upload/file"

	RouteUsersMe = "/users/me"

	// ops
	RouteHealth  = "/health"
	RouteMetrics = "/metrics"
)
