package dto

// StudentCounts summarises students
type StudentCounts struct {
	Total      int `json:"total"`
	Assigned   int `json:"assigned"`
	Unassigned int `json:"unassigned"`
}

// SupervisorCounts summarises supervisors
type SupervisorCounts struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Full      int `json:"full"`
}

// CapacityStats is the aggregated quota usage
type CapacityStats struct {
	TotalQuota int `json:"totalQuota"`
	TotalLoad  int `json:"totalLoad"`
	FillRate   int `json:"fillRate"`
}

// OverviewStats is the global dashboard
type OverviewStats struct {
	Students    StudentCounts    `json:"students"`
	Supervisors SupervisorCounts `json:"supervisors"`
	Capacity    CapacityStats    `json:"capacity"`
	ByStage     map[string]int   `json:"byStage"`
	ByStatus    map[string]int   `json:"byStatus"`
	Documents   int              `json:"documents"`
}

// SupervisorStats is the load of one supervisor
type SupervisorStats struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	MaxQuota    int    `json:"maxQuota"`
	CurrentLoad int    `json:"currentLoad"`
	FillRate    int    `json:"fillRate"`
	Available   bool   `json:"available"`
	Students    int    `json:"students"`
}

// DomainStat counts the use of one tag
type DomainStat struct {
	Domain      string `json:"domain"`
	Students    int    `json:"students"`
	Supervisors int    `json:"supervisors"`
}
