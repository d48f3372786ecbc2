package dto

// DashboardResponse aggregates the back-office landing page statistics.
type DashboardResponse struct {
	Totals      DashboardTotals       `json:"totals"`
	ByStatus    map[string]int64      `json:"byStatus"`
	ByCommittee []CommitteeStat       `json:"byCommittee"`
	ByDay       []DailyStat           `json:"byDay"`
	Recent      []ApplicationResponse `json:"recent"`
}

// DashboardTotals holds the headline counters.
type DashboardTotals struct {
	Applications   int64 `json:"applications"`
	Pending        int64 `json:"pending"`
	Committees     int64 `json:"committees"`
	OpenCommittees int64 `json:"openCommittees"`
}

// CommitteeStat pairs a committee with its application count.
type CommitteeStat struct {
	CommitteeID   int64  `json:"committeeId"`
	CommitteeName string `json:"committeeName"`
	Count         int64  `json:"count"`
}

// DailyStat counts the applications submitted on a single day.
type DailyStat struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}
