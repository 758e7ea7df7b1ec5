package health

import "time"

// Service builds the liveness payloads.
type Service struct {
	Version string
	Now     func() time.Time
}

// NewService constructs a new health service.
func NewService(version string) *Service {
	return &Service{Version: version, Now: time.Now}
}

// Info is the payload served at the API root.
type Info struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status is the payload served at /health.
type Status struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// Info returns the service banner.
func (s *Service) Info() Info {
	return Info{
		Message: "Intelligent Resume Screening System API",
		Status:  "active",
		Version: s.Version,
	}
}

// Status returns a healthy status stamped with the current UTC time.
func (s *Service) Status() Status {
	return Status{
		Status:    "healthy",
		Timestamp: s.Now().UTC().Format(time.RFC3339Nano),
		Version:   s.Version,
	}
}
