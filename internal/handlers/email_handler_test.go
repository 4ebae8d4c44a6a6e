package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendStatusEmail(ctx context.Context, clientEmail, clientName string, status model.InquiryStatus) (bool, error) {
	args := m.Called(ctx, clientEmail, clientName, status)
	return args.Bool(0), args.Error(1)
}

func TestEmailHandler_SendInquiryEmail(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		svc := new(MockEmailService)
		handler := NewEmailHandler(svc)

		svc.On("SendStatusEmail", mock.Anything, "", "", model.InquiryStatus("")).
			Return(false, services.ErrMissingEmailFields)

		ctx := setupTestContext("POST", "/api/v1/send-inquiry-email", []byte("{}"))
		handler.SendInquiryEmail(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("status without template is a success no-op", func(t *testing.T) {
		svc := new(MockEmailService)
		handler := NewEmailHandler(svc)

		// field names as the dashboard sends them
		body := []byte(`{"clientEmail":"ann@example.com","clientName":"Ann","status":"rejected"}`)
		svc.On("SendStatusEmail", mock.Anything, "ann@example.com", "Ann", model.InquiryStatusRejected).
			Return(false, nil)

		ctx := setupTestContext("POST", "/api/v1/send-inquiry-email", body)
		handler.SendInquiryEmail(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var resp map[string]any
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, true, resp["success"])
		assert.Equal(t, "No email needed for this status", resp["message"])
	})

	t.Run("successful send", func(t *testing.T) {
		svc := new(MockEmailService)
		handler := NewEmailHandler(svc)

		body, _ := json.Marshal(sendInquiryEmailRequest{
			ClientEmail: "ann@example.com",
			ClientName:  "Ann",
			Status:      "viewed",
		})
		svc.On("SendStatusEmail", mock.Anything, "ann@example.com", "Ann", model.InquiryStatusViewed).
			Return(true, nil)

		ctx := setupTestContext("POST", "/api/v1/send-inquiry-email", body)
		handler.SendInquiryEmail(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var resp map[string]any
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, "Email sent", resp["message"])
	})

	t.Run("provider failure", func(t *testing.T) {
		svc := new(MockEmailService)
		handler := NewEmailHandler(svc)

		body, _ := json.Marshal(sendInquiryEmailRequest{
			ClientEmail: "ann@example.com",
			ClientName:  "Ann",
			Status:      "viewed",
		})
		svc.On("SendStatusEmail", mock.Anything, "ann@example.com", "Ann", model.InquiryStatusViewed).
			Return(false, errors.New("provider unavailable"))

		ctx := setupTestContext("POST", "/api/v1/send-inquiry-email", body)
		handler.SendInquiryEmail(ctx)

		assert.Equal(t, 500, ctx.Response.StatusCode())
	})
}
