package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("0100-abc")}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSendEmail(t *testing.T) {
	svc := &fakeSES{}

	id, err := SendEmail(context.Background(), svc, Email{
		From:    "careers@techflow.example",
		To:      []string{"jane@example.com"},
		Subject: "Application received",
		Body:    "Thanks",
	})

	require.NoError(t, err)
	assert.Equal(t, "0100-abc", id)
	assert.Equal(t, "careers@techflow.example", aws.ToString(svc.input.Source))
	assert.Equal(t, []string{"jane@example.com"}, svc.input.Destination.ToAddresses)
	assert.Equal(t, "Application received", aws.ToString(svc.input.Message.Subject.Data))
	assert.Equal(t, "Thanks", aws.ToString(svc.input.Message.Body.Text.Data))
}

func TestSendEmail_Error(t *testing.T) {
	_, err := SendEmail(context.Background(), &fakeSES{err: errors.New("MessageRejected")}, Email{})
	assert.EqualError(t, err, "MessageRejected")
}

func TestPublishToTopic(t *testing.T) {
	svc := &fakeSNS{}

	id, err := PublishToTopic(context.Background(), svc, "arn:aws:sns:us-east-1:0:hiring", "New application", "body")

	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, "arn:aws:sns:us-east-1:0:hiring", aws.ToString(svc.input.TopicArn))
	assert.Equal(t, "New application", aws.ToString(svc.input.Subject))

	_, err = PublishToTopic(context.Background(), &fakeSNS{err: errors.New("NotFound")}, "arn", "s", "m")
	assert.Error(t, err)
}
