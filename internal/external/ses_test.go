package external

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freezewatch/internal/types"
)

type fakeSESAPI struct {
	err    error
	inputs []*sesv2.SendEmailInput
}

func (f *fakeSESAPI) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-0001")}, nil
}

func newSESFixture(err error) (*SESDispatcher, *fakeSESAPI) {
	api := &fakeSESAPI{err: err}
	d := NewSESDispatcherWithAPI(api, SESDispatcherConfig{
		Sender:     "alerts@example.com",
		Recipients: []string{"one@example.com", "two@example.com"},
	})
	return d, api
}

func TestSendBuildsPlaintextEmail(t *testing.T) {
	d, api := newSESFixture(nil)

	err := d.Send(context.Background(), "Cold Alert: Turn ON Bathroom Heaters", "freeze expected tonight")
	require.NoError(t, err)

	require.Len(t, api.inputs, 1)
	input := api.inputs[0]
	assert.Equal(t, "alerts@example.com", aws.ToString(input.FromEmailAddress))
	assert.Equal(t, []string{"one@example.com", "two@example.com"}, input.Destination.ToAddresses)
	assert.Equal(t, "Cold Alert: Turn ON Bathroom Heaters", aws.ToString(input.Content.Simple.Subject.Data))
	assert.Equal(t, "freeze expected tonight", aws.ToString(input.Content.Simple.Body.Text.Data))
	assert.Equal(t, "UTF-8", aws.ToString(input.Content.Simple.Subject.Charset))
}

func TestSendMapsRejectedMessage(t *testing.T) {
	d, _ := newSESFixture(&sestypes.MessageRejected{Message: aws.String("address not verified")})

	err := d.Send(context.Background(), "subject", "body")
	require.Error(t, err)

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeDispatchEmail, appErr.Code)
	assert.Contains(t, appErr.Message, "rejected")
}

func TestSendMapsThrottling(t *testing.T) {
	d, _ := newSESFixture(&sestypes.TooManyRequestsException{Message: aws.String("rate exceeded")})

	err := d.Send(context.Background(), "subject", "body")
	require.Error(t, err)

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeDispatchEmail, appErr.Code)
	assert.Contains(t, appErr.Message, "rate limit")
}

func TestSendMapsUnknownErrors(t *testing.T) {
	d, _ := newSESFixture(errors.New("connection reset"))

	err := d.Send(context.Background(), "subject", "body")
	require.Error(t, err)

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeDispatchEmail, appErr.Code)
	assert.ErrorContains(t, err, "dispatch_email_failure")
}
