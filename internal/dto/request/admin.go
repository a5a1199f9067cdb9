package request

type UserListRequest struct {
	PaginatedRequest
	Role   string `json:"role" validate:"omitempty,oneof=customer owner admin"`
	Search string `json:"search" validate:"max=200"`
}
