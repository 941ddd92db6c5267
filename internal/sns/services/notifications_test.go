package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"philcali.me/groceries/internal/notifications"
)

type recordingPublisher struct {
	inputs []*sns.PublishInput
	err    error
}

func (r *recordingPublisher) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	r.inputs = append(r.inputs, params)
	if r.err != nil {
		return nil, r.err
	}
	return &sns.PublishOutput{MessageId: aws.String("message-1")}, nil
}

func TestNotificationSNSService(t *testing.T) {
	t.Run("Publish", func(t *testing.T) {
		publisher := &recordingPublisher{}
		service := NewNotificationService(publisher, "arn:aws:sns:us-east-1:000000000000:groceries")
		output, err := service.Publish(context.TODO(), notifications.PublishInput{
			Subject:    "shoppingListItemDeleted",
			Message:    `{"id":"abc"}`,
			Attributes: map[string]string{"shoppingListId": "list"},
		})
		if err != nil {
			t.Fatalf("Failed to publish: %v", err)
		}
		if output.MessageId != "message-1" {
			t.Fatalf("Expected message-1, but got %s", output.MessageId)
		}
		input := publisher.inputs[0]
		if aws.ToString(input.TopicArn) != "arn:aws:sns:us-east-1:000000000000:groceries" {
			t.Fatalf("Unexpected topic %s", aws.ToString(input.TopicArn))
		}
		attribute, ok := input.MessageAttributes["shoppingListId"]
		if !ok || aws.ToString(attribute.StringValue) != "list" || aws.ToString(attribute.DataType) != "String" {
			t.Fatalf("Unexpected attributes %v", input.MessageAttributes)
		}
	})

	t.Run("Failure", func(t *testing.T) {
		publisher := &recordingPublisher{err: errors.New("throttled")}
		service := NewNotificationService(publisher, "topic")
		if _, err := service.Publish(context.TODO(), notifications.PublishInput{}); err == nil {
			t.Fatal("Expected an error")
		}
	})
}
