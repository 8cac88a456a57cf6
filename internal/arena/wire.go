// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build wireinject

package arena

import (
	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/jobmate/internal/arena/internal/job"
	"github.com/ecodeclub/jobmate/internal/arena/internal/repository"
	"github.com/ecodeclub/jobmate/internal/arena/internal/repository/cache"
	"github.com/ecodeclub/jobmate/internal/arena/internal/service"
	"github.com/ecodeclub/jobmate/internal/arena/internal/web"
	"github.com/ecodeclub/jobmate/internal/question"
	"github.com/ecodeclub/jobmate/internal/user"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
)

func InitModule(db *egorm.Component,
	ec ecache.Cache,
	q mq.MQ,
	queModule *question.Module,
	userModule *user.Module) *Module {
	wire.Build(
		initRatingDAO,
		initAttemptDAO,
		initSprintRatedEventProducer,
		cache.NewArenaECache,
		repository.NewRatingRepository,
		repository.NewAttemptRepository,
		service.NewMatchCoordinator,
		service.NewSprintService,
		service.NewLeaderboardService,
		job.NewExpireStaleAttemptsJob,
		web.NewHandler,
		wire.FieldsOf(new(*question.Module), "Svc"),
		wire.FieldsOf(new(*user.Module), "Svc"),
		wire.Struct(new(Module), "*"),
	)
	return new(Module)
}
