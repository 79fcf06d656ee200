package reporting

import "github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"

type Filter struct {
	Period  Period
	Steps   Band
	Minutes Band
}

// Report is a filtered patient list with the suggested template.
type Report struct {
	Period   Period           `json:"period"`
	Steps    Band             `json:"steps"`
	Minutes  Band             `json:"minutes"`
	Template string           `json:"template"`
	Patients []models.Patient `json:"patients"`
}

// Apply keeps the patients matching both bands for the period.
func Apply(patients []models.Patient, f Filter) Report {
	out := Report{
		Period:   f.Period,
		Steps:    f.Steps,
		Minutes:  f.Minutes,
		Template: SuggestBand(f.Steps, f.Minutes).Template(),
		Patients: []models.Patient{},
	}
	for i := range patients {
		steps, minutes := f.Period.Values(&patients[i])
		if f.Steps.Accepts(steps) && f.Minutes.Accepts(minutes) {
			out.Patients = append(out.Patients, patients[i])
		}
	}
	return out
}

// Recipient is one target of a bulk message.
type Recipient struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Selection struct {
	Template   string      `json:"template"`
	Recipients []Recipient `json:"recipients"`
}

// Select turns a filtered report into bulk-messaging recipients.
func Select(patients []models.Patient, f Filter) Selection {
	report := Apply(patients, f)
	sel := Selection{Template: report.Template, Recipients: make([]Recipient, 0, len(report.Patients))}
	for _, p := range report.Patients {
		sel.Recipients = append(sel.Recipients, Recipient{
			ID:    p.ID,
			Email: p.Email,
			Name:  p.FirstName + " " + p.Surname,
		})
	}
	return sel
}
