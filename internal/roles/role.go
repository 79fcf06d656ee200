// Package roles turns identity claims into a closed set of role variants
// and decides which surface a signed-in identity gets.
package roles

import (
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"
)

type View string

const (
	ViewClient View = "client"
	ViewClinic View = "clinic"
	ViewAdmin  View = "admin"
	ViewDenied View = "denied"
)

// Redirect is the route the UI should land on for the view.
func (v View) Redirect() string {
	switch v {
	case ViewAdmin:
		return "/admin"
	case ViewClinic:
		return "/clinic"
	case ViewClient:
		return "/"
	default:
		return "/login"
	}
}

// Role is one of Admin, Clinic, Patient or None.
type Role interface {
	View() View
	Name() string
	isRole()
}

type Admin struct{}

type Clinic struct {
	ClinicID string
}

type Patient struct {
	// ClinicID may be empty for a patient not yet attached to a clinic.
	ClinicID string
}

type None struct{}

func (Admin) View() View   { return ViewAdmin }
func (Clinic) View() View  { return ViewClinic }
func (Patient) View() View { return ViewClient }
func (None) View() View    { return ViewDenied }

func (Admin) Name() string   { return "admin" }
func (Clinic) Name() string  { return "clinic" }
func (Patient) Name() string { return "patient" }
func (None) Name() string    { return "none" }

func (Admin) isRole()   {}
func (Clinic) isRole()  {}
func (Patient) isRole() {}
func (None) isRole()    {}

// ClinicIDOf returns the clinic a role is attached to, if any.
func ClinicIDOf(r Role) string {
	switch v := r.(type) {
	case Clinic:
		return v.ClinicID
	case Patient:
		return v.ClinicID
	default:
		return ""
	}
}

// Policy holds the static admin allow-list.
type Policy struct {
	adminEmails map[string]struct{}
}

func NewPolicy(adminEmails []string) *Policy {
	p := &Policy{adminEmails: make(map[string]struct{}, len(adminEmails))}
	for _, e := range adminEmails {
		p.adminEmails[identity.NormalizeEmail(e)] = struct{}{}
	}
	return p
}

// IsAllowListed reports whether email is in the admin allow-list.
func (p *Policy) IsAllowListed(email string) bool {
	if email == "" {
		return false
	}
	_, ok := p.adminEmails[identity.NormalizeEmail(email)]
	return ok
}

// Decode maps claims to a role. The admin claim only counts for allow-listed
// emails and the clinic claim needs a clinic id; any other non-empty claim
// set is a patient. Only an identity without claims is denied.
func (p *Policy) Decode(email string, claims models.CustomClaims) Role {
	switch {
	case claims.Admin && p.IsAllowListed(email):
		return Admin{}
	case claims.Clinic && claims.ClinicID != "":
		return Clinic{ClinicID: claims.ClinicID}
	case claims.IsZero():
		return None{}
	default:
		return Patient{ClinicID: claims.ClinicID}
	}
}
