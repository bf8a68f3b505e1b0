package dto

import (
	"vistapos/internal/domain/alerts"
)

// NotificationListRequest extends list parameters with notification filters.
type NotificationListRequest struct {
	ListRequest
	ActiveOnly      bool   `form:"activeOnly"`
	IncludeArchived bool   `form:"includeArchived"`
	Severity        string `form:"severity"`
}

// ToFilter converts query parameters into a notification list filter.
func (r *NotificationListRequest) ToFilter() alerts.ListFilter {
	filter := alerts.ListFilter{ListFilter: r.ListRequest.ToFilter()}
	if filter.OrderBy == "name" {
		filter.OrderBy = "-created_at"
	}
	filter.ActiveOnly = r.ActiveOnly
	filter.IncludeArchived = r.IncludeArchived
	if r.Severity != "" {
		severity := alerts.Severity(r.Severity)
		filter.Severity = &severity
	}
	return filter
}

// ActiveCountResponse reports the number of active notifications.
type ActiveCountResponse struct {
	Count int64 `json:"count"`
}
