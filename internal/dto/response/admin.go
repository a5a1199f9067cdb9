package response

type StatsResponse struct {
	TotalUsers        int64 `json:"total_users"`
	ActiveUsers       int64 `json:"active_users"`
	TotalProperties   int64 `json:"total_properties"`
	PendingProperties int64 `json:"pending_properties"`
	TotalBookings     int64 `json:"total_bookings"`
	CompletedBookings int64 `json:"completed_bookings"`
}
