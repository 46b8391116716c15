package chathandler

type HealthResponse struct {
	Status string `json:"status"`
}

type StatsResponse struct {
	Clients       int     `json:"clients"`
	HistoryLength int     `json:"history_length"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
