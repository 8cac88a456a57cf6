package web

import "github.com/ecodeclub/jobmate/internal/user/internal/domain"

type Profile struct {
	Id       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	School   string `json:"school"`
}

func newProfile(u domain.User) Profile {
	return Profile{
		Id:       u.Id,
		Nickname: u.Nickname,
		Avatar:   u.Avatar,
		School:   u.School,
	}
}

type LoginReq struct {
	SN string `json:"sn"`
}

type EditReq struct {
	Avatar   string `json:"avatar"`
	Nickname string `json:"nickname"`
	School   string `json:"school"`
}
