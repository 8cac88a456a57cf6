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

package arena

import (
	"sync"

	"github.com/ecodeclub/jobmate/internal/arena/internal/domain"
	"github.com/ecodeclub/jobmate/internal/arena/internal/event"
	"github.com/ecodeclub/jobmate/internal/arena/internal/job"
	"github.com/ecodeclub/jobmate/internal/arena/internal/repository/dao"
	"github.com/ecodeclub/jobmate/internal/arena/internal/service"
	"github.com/ecodeclub/jobmate/internal/arena/internal/web"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
)

// Handler 暴露出去给 ioc 使用
type Handler = web.Handler

type SprintService = service.SprintService
type LeaderboardService = service.LeaderboardService
type RatingRecord = domain.RatingRecord
type SprintAttempt = domain.SprintAttempt
type ExpireStaleAttemptsJob = job.ExpireStaleAttemptsJob

type Module struct {
	Hdl            *Handler
	SprintSvc      SprintService
	LeaderboardSvc LeaderboardService
	ExpireJob      *ExpireStaleAttemptsJob
}

var daoOnce = sync.Once{}

func initTableOnce(db *egorm.Component) {
	daoOnce.Do(func() {
		err := dao.InitTables(db)
		if err != nil {
			panic(err)
		}
	})
}

func initRatingDAO(db *egorm.Component) dao.RatingDAO {
	initTableOnce(db)
	return dao.NewRatingDAO(db)
}

func initAttemptDAO(db *egorm.Component) dao.AttemptDAO {
	initTableOnce(db)
	return dao.NewAttemptDAO(db)
}

func initSprintRatedEventProducer(q mq.MQ) event.SprintRatedEventProducer {
	producer, err := event.NewSprintRatedEventProducer(q)
	if err != nil {
		panic(err)
	}
	return producer
}
