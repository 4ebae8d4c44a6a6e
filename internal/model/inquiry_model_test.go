package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisitorInquiryCreateRequest_Validate(t *testing.T) {
	valid := VisitorInquiryCreateRequest{
		Name:    "Ann",
		Email:   "ann@example.com",
		Message: "Hello",
	}
	assert.NoError(t, valid.Validate())

	t.Run("rejections are typed validation errors", func(t *testing.T) {
		p := valid
		p.Email = "   "
		err := p.Validate()
		assert.Error(t, err)

		var ve ValidationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("blank name rejected", func(t *testing.T) {
		p := valid
		p.Name = " "
		assert.Error(t, p.Validate())
	})

	t.Run("empty message rejected", func(t *testing.T) {
		p := valid
		p.Message = ""
		assert.Error(t, p.Validate())
	})

	t.Run("any non-empty message accepted", func(t *testing.T) {
		p := valid
		p.Message = " "
		assert.NoError(t, p.Validate())
	})
}

func TestClientInquiryCreateRequest_Validate(t *testing.T) {
	valid := ClientInquiryCreateRequest{UserID: "client-1", Message: "Hi"}
	assert.NoError(t, valid.Validate())

	p := valid
	p.Message = ""
	assert.Error(t, p.Validate())

	p = valid
	p.UserID = ""
	assert.Error(t, p.Validate())
}

func TestStatusChangeRequest_Validate(t *testing.T) {
	valid := StatusChangeRequest{
		InquiryID:   "inq-1",
		InquiryType: InquiryTypeClient,
		Status:      InquiryStatusViewed,
	}
	assert.NoError(t, valid.Validate())

	p := valid
	p.Status = "archived"
	assert.Error(t, p.Validate())

	p = valid
	p.InquiryType = "partner"
	assert.Error(t, p.Validate())
}
