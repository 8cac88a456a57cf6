package event

import (
	"github.com/ecodeclub/jobmate/internal/pkg/mqx"
	"github.com/ecodeclub/mq-api"
)

type SprintRatedEventProducer interface {
	mqx.Producer[SprintRatedEvent]
}

func NewSprintRatedEventProducer(q mq.MQ) (SprintRatedEventProducer, error) {
	return mqx.NewGeneralProducer[SprintRatedEvent](q, SprintRatedEventName)
}
