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

package question

import (
	"sync"

	"github.com/ecodeclub/jobmate/internal/question/internal/domain"
	"github.com/ecodeclub/jobmate/internal/question/internal/repository/dao"
	"github.com/ecodeclub/jobmate/internal/question/internal/service"
	"github.com/ecodeclub/jobmate/internal/question/internal/web"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

type Module struct {
	Svc Service
	Hdl *Handler
}

type Service = service.Service
type Question = domain.Question
type Handler = web.Handler

const (
	TrackTechnical  = domain.TrackTechnical
	TrackBehavioral = domain.TrackBehavioral
)

var daoOnce = sync.Once{}

func InitTableOnce(db *gorm.DB) {
	daoOnce.Do(func() {
		err := dao.InitTables(db)
		if err != nil {
			panic(err)
		}
	})
}

func InitQuestionDAO(db *egorm.Component) dao.QuestionDAO {
	InitTableOnce(db)
	return dao.NewQuestionDAO(db)
}
