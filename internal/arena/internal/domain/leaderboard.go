package domain

// LeaderboardRow 排行榜的一行，读路径上由身价记录和用户资料拼装而来，
// 不落库
type LeaderboardRow struct {
	Rank            int
	Uid             int64
	Nickname        string
	School          string
	Title           string
	MarketValue     int64
	PeakMarketValue int64
}
