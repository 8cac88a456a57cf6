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

package startup

import (
	"github.com/ecodeclub/jobmate/internal/arena"
	"github.com/ecodeclub/jobmate/internal/question"
	testioc "github.com/ecodeclub/jobmate/internal/test/ioc"
	"github.com/ecodeclub/jobmate/internal/user"
)

// Modules 集成测试会用到的所有模块
type Modules struct {
	Arena    *arena.Module
	Question *question.Module
	User     *user.Module
}

func InitModules() (*Modules, error) {
	db := testioc.InitDB()
	ec := testioc.InitCache()
	q := testioc.InitMQ()
	queModule, err := question.InitModule(db, ec)
	if err != nil {
		return nil, err
	}
	userModule := user.InitModule(db, ec, q)
	arenaModule := arena.InitModule(db, ec, q, queModule, userModule)
	return &Modules{
		Arena:    arenaModule,
		Question: queModule,
		User:     userModule,
	}, nil
}
