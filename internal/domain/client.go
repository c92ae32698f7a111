package domain

import "time"

type Client struct {
	ID        string
	Code      string
	Name      string
	Email     *string
	Status    RecordStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClientDraft holds the editable fields of a client as form strings.
type ClientDraft struct {
	Code   string
	Name   string
	Email  string
	Status string
}

func NewClientDraft() ClientDraft {
	return ClientDraft{Status: string(StatusActive)}
}

func (c Client) Draft() ClientDraft {
	return ClientDraft{
		Code:   c.Code,
		Name:   c.Name,
		Email:  StringOrEmpty(c.Email),
		Status: string(c.Status),
	}
}
