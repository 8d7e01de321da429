package provider

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrEmptyName       = errors.New("provider name is required")
	ErrNonPositiveRate = errors.New("hourly rate must be positive")
)

// Provider is a read-only projection of the provider directory. The booking
// core reads it to price jobs and to describe payment authorizations; it
// never mutates provider records.
type Provider struct {
	id              uuid.UUID
	displayName     string
	category        string
	hourlyRateCents int64
	verified        bool
	active          bool
}

func NewProvider(id uuid.UUID, displayName, category string, hourlyRateCents int64, verified, active bool) (*Provider, error) {
	if displayName == "" {
		return nil, ErrEmptyName
	}
	if hourlyRateCents <= 0 {
		return nil, ErrNonPositiveRate
	}
	return &Provider{
		id:              id,
		displayName:     displayName,
		category:        category,
		hourlyRateCents: hourlyRateCents,
		verified:        verified,
		active:          active,
	}, nil
}

// QuoteCents is the authoritative price for a job of the given length.
// Client-supplied totals must match it exactly.
func (p *Provider) QuoteCents(hours int) int64 {
	return p.hourlyRateCents * int64(hours)
}

func (p *Provider) ID() uuid.UUID          { return p.id }
func (p *Provider) DisplayName() string    { return p.displayName }
func (p *Provider) Category() string       { return p.category }
func (p *Provider) HourlyRateCents() int64 { return p.hourlyRateCents }
func (p *Provider) IsVerified() bool       { return p.verified }
func (p *Provider) IsActive() bool         { return p.active }
