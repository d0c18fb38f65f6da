package model

// HealthStatus represents the possible health status values
type HealthStatus string

const (
	StatusUp      HealthStatus = "UP"
	StatusDown    HealthStatus = "DOWN"
	StatusUnknown HealthStatus = "UNKNOWN"
)

// ComponentHealthStatus represents the health check structure of a application component
type ComponentHealthStatus struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// HealthResponse represents the health check response of all application.
// Cache holds one entry per namespace.
type HealthResponse struct {
	Status   HealthStatus                     `json:"status"`
	Database ComponentHealthStatus            `json:"database"`
	Queue    ComponentHealthStatus            `json:"queue"`
	Cache    map[string]ComponentHealthStatus `json:"cache"`
}

// Overall is UP only when every component is UP or UNKNOWN.
func (h HealthResponse) Overall() HealthStatus {
	components := []ComponentHealthStatus{h.Database, h.Queue}
	for _, c := range h.Cache {
		components = append(components, c)
	}
	for _, c := range components {
		if c.Status == StatusDown {
			return StatusDown
		}
	}
	return StatusUp
}

func UpStatus(details map[string]string) ComponentHealthStatus {
	return ComponentHealthStatus{Status: StatusUp, Details: details}
}

func DownStatus(err error) ComponentHealthStatus {
	return ComponentHealthStatus{Status: StatusDown, Details: map[string]string{"message": err.Error()}}
}
