package web

import (
	"github.com/ecodeclub/jobmate/internal/arena/internal/domain"
	"github.com/ecodeclub/jobmate/internal/question"
)

type PingResp struct {
	Ok bool `json:"ok"`
}

type Question struct {
	Id         int64    `json:"id"`
	Track      string   `json:"track"`
	Difficulty uint8    `json:"difficulty"`
	Labels     []string `json:"labels"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
}

func newQuestion(track domain.Track, q question.Question) Question {
	return Question{
		Id:         q.Id,
		Track:      track.String(),
		Difficulty: q.Difficulty,
		Labels:     q.Labels,
		Title:      q.Title,
		Content:    q.Content,
	}
}

type DrawResp struct {
	AttemptSN string     `json:"attemptSn"`
	StartedAt int64      `json:"startedAt"`
	Questions []Question `json:"questions"`
}

type SubmitReq struct {
	AttemptSN  string `json:"attemptSn"`
	Track      string `json:"track"`
	Difficulty uint8  `json:"difficulty"`
	// Score 归一化得分，[0,1] 的小数
	Score      float64 `json:"score"`
	StartedAt  int64   `json:"startedAt"`
	FinishedAt int64   `json:"finishedAt"`
}

type SubmitResp struct {
	AttemptSN       string `json:"attemptSn"`
	Delta           int64  `json:"delta"`
	MarketValue     int64  `json:"marketValue"`
	PeakMarketValue int64  `json:"peakMarketValue"`
	Title           string `json:"title"`
}

type LeaderboardRow struct {
	Rank            int64  `json:"rank"`
	UserId          int64  `json:"userId"`
	Username        string `json:"username"`
	SchoolName      string `json:"schoolName"`
	Title           string `json:"title"`
	MarketValue     int64  `json:"marketValue"`
	PeakMarketValue int64  `json:"peakMarketValue"`
}

func newLeaderboardRow(row domain.LeaderboardRow) LeaderboardRow {
	return LeaderboardRow{
		Rank:            int64(row.Rank),
		UserId:          row.Uid,
		Username:        row.Nickname,
		SchoolName:      row.School,
		Title:           row.Title,
		MarketValue:     row.MarketValue,
		PeakMarketValue: row.PeakMarketValue,
	}
}
