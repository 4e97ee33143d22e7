package interfaces

import "context"

type ConsumerHandler interface {
	HandleMessage(message string) error
}

type ProducerHandler interface {
	PublishMessage(ctx context.Context, key, value []byte) error
}
