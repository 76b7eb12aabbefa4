package reportportal

// LaunchResource is the subset of a ReportPortal launch used to locate logs.
type LaunchResource struct {
	ID          int    `json:"id"`
	UUID        string `json:"uuid,omitempty"`
	Name        string `json:"name,omitempty"`
	Number      int    `json:"number,omitempty"`
	Status      string `json:"status,omitempty"`
	Description string `json:"description,omitempty"`
}

// TestItemResource is the subset of a ReportPortal test item used to locate logs.
type TestItemResource struct {
	ID       int    `json:"id"`
	UUID     string `json:"uuid,omitempty"`
	Name     string `json:"name,omitempty"`
	Type     string `json:"type,omitempty"`
	Status   string `json:"status,omitempty"`
	LaunchID int    `json:"launchId,omitempty"`
}

// PagedLaunches is the paginated response of the launch listing endpoint.
type PagedLaunches struct {
	Content []LaunchResource `json:"content"`
	Page    PageInfo         `json:"page"`
}

// PageInfo holds pagination metadata.
type PageInfo struct {
	Number        int `json:"number"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}
