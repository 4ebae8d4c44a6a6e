package fixtures

import (
	"time"

	"github.com/lumiloops/portal-api/internal/model"
)

var (
	TestAdmin = model.Profile{
		ID:       "00000000-0000-0000-0000-00000000a001",
		Email:    "admin@lumiloops.test",
		FullName: "Studio Admin",
		Role:     model.RoleAdmin,
	}

	TestClientAnn = model.Profile{
		ID:       "00000000-0000-0000-0000-00000000c001",
		Email:    "ann@example.com",
		FullName: "Ann Chen",
		Role:     model.RoleClient,
	}

	TestClientBen = model.Profile{
		ID:       "00000000-0000-0000-0000-00000000c002",
		Email:    "ben@example.com",
		FullName: "Ben Ortiz",
		Role:     model.RoleClient,
	}
)

func NewVisitorInquiryRequest(name, email, message string) model.VisitorInquiryCreateRequest {
	return model.VisitorInquiryCreateRequest{
		Name:              name,
		Email:             email,
		Message:           message,
		ContentTypes:      []string{"short-form"},
		Platforms:         []string{"instagram", "tiktok"},
		Goal:              "brand awareness",
		BudgetRange:       "1k-5k",
		ContactPreference: "email",
	}
}

func NewClientInquiryRequest(userID, message string) model.ClientInquiryCreateRequest {
	return model.ClientInquiryCreateRequest{
		UserID:            userID,
		Message:           message,
		ContentTypes:      []string{"long-form"},
		Platforms:         []string{"youtube"},
		Goal:              "product launch",
		BudgetRange:       "5k-10k",
		ContactPreference: "email",
	}
}

func NewStatusChangeRequest(typ model.InquiryType, id string, status model.InquiryStatus) model.StatusChangeRequest {
	return model.StatusChangeRequest{
		InquiryID:   id,
		InquiryType: typ,
		Status:      status,
	}
}

func NewEmailJob(recipientID, recipientEmail, recipientName string, status model.InquiryStatus) *model.EmailJob {
	return &model.EmailJob{
		RecipientID:      recipientID,
		RecipientEmail:   recipientEmail,
		RecipientName:    recipientName,
		NotificationType: string(status),
	}
}

func NewResponseRequest(ticketID, adminID, text string, sendEmail bool) model.ResponseCreateRequest {
	return model.ResponseCreateRequest{
		TicketID:     ticketID,
		AdminID:      adminID,
		ResponseText: text,
		SendEmail:    sendEmail,
	}
}

func AdminActor() model.Profile {
	return TestAdmin
}

var (
	EmailStatuses = []model.InquiryStatus{
		model.InquiryStatusViewed,
		model.InquiryStatusInProgress,
		model.InquiryStatusResponded,
		model.InquiryStatusScheduled,
		model.InquiryStatusCompleted,
	}

	SilentStatuses = []model.InquiryStatus{
		model.InquiryStatusNew,
		model.InquiryStatusRejected,
		model.InquiryStatusClosed,
	}
)

func InquiryFilterByUser(userID string) model.InquiryFilter {
	return model.InquiryFilter{
		UserID: &userID,
		Limit:  50,
	}
}

func InquiryFilterByStatuses(statuses ...model.InquiryStatus) model.InquiryFilter {
	return model.InquiryFilter{
		Statuses: statuses,
		Limit:    50,
	}
}

func AuditFilterByDateRange(from, to time.Time) model.AuditFilter {
	return model.AuditFilter{
		StartDate: &from,
		EndDate:   &to,
		Page:      1,
		Limit:     50,
	}
}
