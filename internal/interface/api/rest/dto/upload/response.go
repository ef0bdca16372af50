package upload

type Response struct {
	Key string `json:"key"`
}
