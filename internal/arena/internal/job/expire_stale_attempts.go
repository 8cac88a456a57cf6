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

package job

import (
	"context"
	"fmt"

	"github.com/ecodeclub/jobmate/internal/arena/internal/service"
	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/task/ecron"
)

var _ ecron.NamedJob = (*ExpireStaleAttemptsJob)(nil)

// ExpireStaleAttemptsJob 兜底任务：
// 客户端抽了题之后一直不提交的场次，超过存活窗口统一置为过期
type ExpireStaleAttemptsJob struct {
	svc    service.SprintService
	logger *elog.Component
}

func NewExpireStaleAttemptsJob(svc service.SprintService) *ExpireStaleAttemptsJob {
	return &ExpireStaleAttemptsJob{
		svc:    svc,
		logger: elog.DefaultLogger,
	}
}

func (j *ExpireStaleAttemptsJob) Name() string {
	return "ExpireStaleAttemptsJob"
}

func (j *ExpireStaleAttemptsJob) Run(ctx context.Context) error {
	cnt, err := j.svc.ExpireStale(ctx)
	if err != nil {
		return fmt.Errorf("过期冲刺场次失败: %w", err)
	}
	if cnt > 0 {
		j.logger.Info("过期冲刺场次", elog.Int64("count", cnt))
	}
	return nil
}
