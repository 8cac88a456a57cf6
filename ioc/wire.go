//go:build wireinject

package ioc

import (
	"github.com/ecodeclub/jobmate/internal/arena"
	"github.com/ecodeclub/jobmate/internal/question"
	"github.com/ecodeclub/jobmate/internal/user"
	"github.com/google/wire"
)

var BaseSet = wire.NewSet(InitDB, InitMQ, InitCache, InitRedis)

func InitApp() (*App, error) {
	wire.Build(wire.Struct(new(App), "*"),
		BaseSet,
		InitSession,
		user.InitModule,
		question.InitModule,
		arena.InitModule,
		wire.FieldsOf(new(*user.Module), "Hdl"),
		wire.FieldsOf(new(*question.Module), "Hdl"),
		wire.FieldsOf(new(*arena.Module), "Hdl", "ExpireJob"),
		initCronJobs,
		initGinxServer)
	return new(App), nil
}
