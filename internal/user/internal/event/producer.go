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

package event

import (
	"github.com/ecodeclub/jobmate/internal/pkg/mqx"
	"github.com/ecodeclub/mq-api"
)

const RegistrationEventName = "user_registration_events"

// RegistrationEvent 注册成功之后发出，下游营销、统计各自消费
type RegistrationEvent struct {
	Uid int64 `json:"uid"`
}

type RegistrationEventProducer interface {
	mqx.Producer[RegistrationEvent]
}

func NewRegistrationEventProducer(q mq.MQ) (RegistrationEventProducer, error) {
	return mqx.NewGeneralProducer[RegistrationEvent](q, RegistrationEventName)
}
