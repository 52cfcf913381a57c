package events

import "context"

type Publisher interface {
	PublishPostEvent(ctx context.Context, e PostEvent) error
}
