package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"philcali.me/groceries/internal/notifications"
)

// PublishAPI is the slice of the SNS client used here.
type PublishAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type NotificationSNSService struct {
	Sns      PublishAPI
	TopicArn string
}

func NewNotificationService(client PublishAPI, topicArn string) notifications.NotificationService {
	return &NotificationSNSService{
		Sns:      client,
		TopicArn: topicArn,
	}
}

func (n *NotificationSNSService) Publish(ctx context.Context, input notifications.PublishInput) (*notifications.PublishOutput, error) {
	attributes := make(map[string]types.MessageAttributeValue, len(input.Attributes))
	for name, value := range input.Attributes {
		attributes[name] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(value),
		}
	}
	output, err := n.Sns.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(n.TopicArn),
		Subject:           aws.String(input.Subject),
		Message:           aws.String(input.Message),
		MessageAttributes: attributes,
	})
	if err != nil {
		return nil, err
	}
	return &notifications.PublishOutput{
		MessageId: aws.ToString(output.MessageId),
	}, nil
}
