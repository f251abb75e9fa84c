package mailer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/lgsbc-git/lgstech-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(ctx context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, in)
	return &sesv2.SendEmailOutput{MessageId: aws.String("0100018f-test")}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSESSender_MapsMessage(t *testing.T) {
	fake := &fakeSES{}
	s := NewSESSender(fake, "noreply@lgsbc.com.au", testLogger())

	err := s.Send(context.Background(), Message{
		To:       "user@example.com",
		ReplyTo:  "support@lgsbc.com.au",
		FromName: "LGSTech.ai",
		Subject:  "Thanks for subscribing to LGSTech!",
		HTML:     "<p>thanks</p>",
	})
	require.NoError(t, err)
	require.Len(t, fake.inputs, 1)

	in := fake.inputs[0]
	assert.Equal(t, `"LGSTech.ai" <noreply@lgsbc.com.au>`, aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"user@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, []string{"support@lgsbc.com.au"}, in.ReplyToAddresses)
	assert.Equal(t, "Thanks for subscribing to LGSTech!", aws.ToString(in.Content.Simple.Subject.Data))
	assert.Equal(t, "<p>thanks</p>", aws.ToString(in.Content.Simple.Body.Html.Data))
}

func TestSESSender_WrapsFailure(t *testing.T) {
	s := NewSESSender(&fakeSES{err: errors.New("MessageRejected: Email address is not verified")}, "noreply@lgsbc.com.au", testLogger())

	err := s.Send(context.Background(), Message{To: "user@example.com"})
	assert.ErrorIs(t, err, domain.ErrNotificationFailure)
}
