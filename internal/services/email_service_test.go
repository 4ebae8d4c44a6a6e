package services

import (
	"context"
	"testing"

	"github.com/lumiloops/portal-api/internal/email"
	"github.com/lumiloops/portal-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEmailService_SendStatusEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("missing fields", func(t *testing.T) {
		sender := new(MockSender)
		svc := NewEmailService(sender, "https://lumiloops.com")

		_, err := svc.SendStatusEmail(ctx, "", "Ann", model.InquiryStatusViewed)
		assert.ErrorIs(t, err, ErrMissingEmailFields)

		_, err = svc.SendStatusEmail(ctx, "ann@x.com", "  ", model.InquiryStatusViewed)
		assert.ErrorIs(t, err, ErrMissingEmailFields)

		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("status outside template table is a silent no-op", func(t *testing.T) {
		sender := new(MockSender)
		svc := NewEmailService(sender, "https://lumiloops.com")

		sent, err := svc.SendStatusEmail(ctx, "ann@x.com", "Ann", model.InquiryStatus("archived"))
		require.NoError(t, err)
		assert.False(t, sent)
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("renders and sends", func(t *testing.T) {
		sender := new(MockSender)
		svc := NewEmailService(sender, "https://lumiloops.com")

		sender.On("Send", ctx, "ann@x.com", "Ann", mock.MatchedBy(func(msg email.Message) bool {
			return msg.Subject == "Your inquiry has been reviewed"
		})).Return(nil)

		sent, err := svc.SendStatusEmail(ctx, "ann@x.com", "Ann", model.InquiryStatusViewed)
		require.NoError(t, err)
		assert.True(t, sent)
		sender.AssertExpectations(t)
	})

	t.Run("provider error surfaces", func(t *testing.T) {
		sender := new(MockSender)
		svc := NewEmailService(sender, "https://lumiloops.com")

		sender.On("Send", ctx, "ann@x.com", "Ann", mock.Anything).Return(assert.AnError)

		sent, err := svc.SendStatusEmail(ctx, "ann@x.com", "Ann", model.InquiryStatusCompleted)
		assert.Error(t, err)
		assert.False(t, sent)
	})
}
