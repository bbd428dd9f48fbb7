package domain

// WeeklyInsight is the completion summary of one Monday-start week.
type WeeklyInsight struct {
	WeekKey        string  `json:"weekKey"`
	WeekLabel      string  `json:"weekLabel"`
	DaysCompleted  int     `json:"daysCompleted"`
	TargetDays     int     `json:"targetDays"`
	CompletionRate float64 `json:"completionRate"`
}
