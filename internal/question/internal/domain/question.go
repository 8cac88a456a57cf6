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

package domain

import "time"

const (
	TrackTechnical  uint8 = 1
	TrackBehavioral uint8 = 2
)

type QuestionStatus uint8

func (s QuestionStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	// UnpublishedStatus editing 中，不会进入冲刺题池
	UnpublishedStatus QuestionStatus = 1
	PublishedStatus   QuestionStatus = 2
)

type Question struct {
	Id int64
	// Track 1-technical 2-behavioral
	Track      uint8
	Difficulty uint8
	Labels     []string
	// 题干
	Title   string
	Content string
	Status  QuestionStatus
	Utime   time.Time
}
