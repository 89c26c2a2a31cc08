package dto

type ProjectRequest struct {
	Name string `json:"name"`
}

// MoveProjectRequest carries the target index in the persisted project order.
type MoveProjectRequest struct {
	Position *int `json:"position"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}
