// Package testutil provides database, redis and fixture helpers shared by package tests.
package testutil

import (
	"fmt"
	"time"

	"github.com/spps-sekolah/spps-api/internal/domain/model"
)

// StudentRequestBuilder provides a fluent interface for building CreateStudentRequest objects for testing.
type StudentRequestBuilder struct {
	req *model.CreateStudentRequest
}

// NewStudentRequest creates a new StudentRequestBuilder with sensible defaults.
func NewStudentRequest() *StudentRequestBuilder {
	return &StudentRequestBuilder{
		req: &model.CreateStudentRequest{
			Name:      "Budi Santoso",
			ClassName: "7A",
		},
	}
}

// WithName sets the student name.
func (b *StudentRequestBuilder) WithName(name string) *StudentRequestBuilder {
	b.req.Name = name
	return b
}

// WithClass sets the class name.
func (b *StudentRequestBuilder) WithClass(className string) *StudentRequestBuilder {
	b.req.ClassName = className
	return b
}

// WithNIS sets the student number.
func (b *StudentRequestBuilder) WithNIS(nis string) *StudentRequestBuilder {
	b.req.NIS = &nis
	return b
}

// WithGender sets the gender.
func (b *StudentRequestBuilder) WithGender(g model.Gender) *StudentRequestBuilder {
	b.req.Gender = &g
	return b
}

// WithParentContact sets the parent contact.
func (b *StudentRequestBuilder) WithParentContact(contact string) *StudentRequestBuilder {
	b.req.ParentContact = &contact
	return b
}

// Build returns the built request.
func (b *StudentRequestBuilder) Build() *model.CreateStudentRequest {
	return b.req
}

// StudentRequests returns n distinct requests in one class.
func StudentRequests(n int, className string) []*model.CreateStudentRequest {
	out := make([]*model.CreateStudentRequest, n)
	for i := range out {
		out[i] = NewStudentRequest().WithName(fmt.Sprintf("Siswa %02d", i+1)).WithClass(className).Build()
	}
	return out
}

// ViolationRequestBuilder provides a fluent interface for building CreateViolationRequest objects for testing.
type ViolationRequestBuilder struct {
	req *model.CreateViolationRequest
}

// NewViolationRequest creates a builder for a violation by studentID of typeID.
func NewViolationRequest(studentID, typeID string) *ViolationRequestBuilder {
	return &ViolationRequestBuilder{
		req: &model.CreateViolationRequest{
			StudentID:       studentID,
			ViolationTypeID: typeID,
			Points:          5,
		},
	}
}

// WithPoints sets the points.
func (b *ViolationRequestBuilder) WithPoints(p int) *ViolationRequestBuilder {
	b.req.Points = p
	return b
}

// WithDate sets the date of the violation.
func (b *ViolationRequestBuilder) WithDate(d time.Time) *ViolationRequestBuilder {
	b.req.Date = &d
	return b
}

// WithNotes sets the notes.
func (b *ViolationRequestBuilder) WithNotes(notes string) *ViolationRequestBuilder {
	b.req.Notes = &notes
	return b
}

// RecordedBy sets the recording user.
func (b *ViolationRequestBuilder) RecordedBy(userID string) *ViolationRequestBuilder {
	b.req.RecordedBy = &userID
	return b
}

// Build returns the built request.
func (b *ViolationRequestBuilder) Build() *model.CreateViolationRequest {
	return b.req
}
