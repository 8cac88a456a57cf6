package domain

type User struct {
	Id       int64
	Avatar   string
	Nickname string
	// School 学校或者公司，排行榜按这个维度聚合
	School string
	SN     string
}
