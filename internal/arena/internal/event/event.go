package event

const SprintRatedEventName = "sprint_rated_events"

// SprintRatedEvent 一次冲刺完成结算后对外广播的事件
type SprintRatedEvent struct {
	Uid             int64  `json:"uid"`
	AttemptSN       string `json:"attemptSN"`
	Delta           int64  `json:"delta"`
	MarketValue     int64  `json:"marketValue"`
	PeakMarketValue int64  `json:"peakMarketValue"`
	Title           string `json:"title"`
}
