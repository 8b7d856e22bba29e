package models

import "time"

// GlobalStats are the headline totals of the admin dashboard. User counts
// exclude admin accounts.
type GlobalStats struct {
	TotalUsers       int `json:"totalUsers"`
	TotalListings    int `json:"totalListings"`
	ActiveListings   int `json:"activeListings"`
	PendingListings  int `json:"pendingListings"`
	InactiveListings int `json:"inactiveListings"`
	Students         int `json:"students"`
	Landlords        int `json:"landlords"`
	VerifiedUsers    int `json:"verifiedUsers"`
}

// PeriodStats are the fixed-window signup/submission counts and the
// day-over-day growth percentages.
type PeriodStats struct {
	UsersToday        int     `json:"usersToday"`
	UsersYesterday    int     `json:"usersYesterday"`
	UsersThisWeek     int     `json:"usersThisWeek"`
	UsersThisMonth    int     `json:"usersThisMonth"`
	ListingsToday     int     `json:"listingsToday"`
	ListingsYesterday int     `json:"listingsYesterday"`
	ListingsThisWeek  int     `json:"listingsThisWeek"`
	ListingsThisMonth int     `json:"listingsThisMonth"`
	UserGrowthToday   float64 `json:"userGrowthToday"`
	ListingGrowth     float64 `json:"listingGrowthToday"`
}

// DailyPoint is one entry of the 7-day chart series.
type DailyPoint struct {
	Date     string `json:"date"`
	Users    int    `json:"users"`
	Listings int    `json:"listings"`
}

// StatisticsReport is the full dashboard payload.
type StatisticsReport struct {
	GlobalStats GlobalStats  `json:"globalStats"`
	DailyStats  PeriodStats  `json:"dailyStats"`
	ChartData   []DailyPoint `json:"chartData"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

// UserCountFilter narrows user range counts.
type UserCountFilter struct {
	ExcludeAdmins bool
	Role          *UserRole
	Verified      *bool
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// ListingCountFilter narrows listing range counts.
type ListingCountFilter struct {
	Validated   *bool
	Status      *ListingStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
