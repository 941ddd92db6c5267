package notifications

import "context"

type PublishInput struct {
	Subject    string
	Message    string
	Attributes map[string]string
}

type PublishOutput struct {
	MessageId string
}

type NotificationService interface {
	Publish(ctx context.Context, input PublishInput) (*PublishOutput, error)
}
