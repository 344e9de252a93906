package model

// DateClicks is one calendar-day bucket in a clicks-by-date series.
type DateClicks struct {
	Date   string `json:"date"` // UTC calendar date, YYYY-MM-DD
	Clicks int    `json:"clicks"`
}

// OSStat is the per-operating-system slice of a breakdown. UniqueUsers
// counts distinct IPs within this group only.
type OSStat struct {
	OSName       string `json:"osName"`
	UniqueClicks int    `json:"uniqueClicks"`
	UniqueUsers  int    `json:"uniqueUsers"`
}

// DeviceStat is the per-device-type slice of a breakdown.
type DeviceStat struct {
	DeviceName   string `json:"deviceName"`
	UniqueClicks int    `json:"uniqueClicks"`
	UniqueUsers  int    `json:"uniqueUsers"`
}

// AliasAnalytics is the aggregate for a single alias.
type AliasAnalytics struct {
	TotalClicks  int64        `json:"totalClicks"`
	UniqueUsers  int          `json:"uniqueUsers"`
	ClicksByDate []DateClicks `json:"clicksByDate"`
	OSType       []OSStat     `json:"osType"`
	DeviceType   []DeviceStat `json:"deviceType"`
}

// AliasSummary is the per-alias line item inside a topic aggregate.
type AliasSummary struct {
	ShortURL    string `json:"shortUrl"`
	TotalClicks int64  `json:"totalClicks"`
	UniqueUsers int    `json:"uniqueUsers"`
}

// TopicAnalytics is the aggregate over every alias an owner filed under
// one topic.
type TopicAnalytics struct {
	TotalClicks  int64          `json:"totalClicks"`
	UniqueUsers  int            `json:"uniqueUsers"`
	ClicksByDate []DateClicks   `json:"clicksByDate"`
	URLs         []AliasSummary `json:"urls"`
}

// OverallAnalytics is the aggregate over an owner's entire alias set.
type OverallAnalytics struct {
	TotalURLs    int          `json:"totalUrls"`
	TotalClicks  int64        `json:"totalClicks"`
	UniqueUsers  int          `json:"uniqueUsers"`
	ClicksByDate []DateClicks `json:"clicksByDate"`
	OSType       []OSStat     `json:"osType"`
	DeviceType   []DeviceStat `json:"deviceType"`
}
