package invoicing

import "strings"

// Close request statuses.
const (
	CloseInvoiced    = "invoiced"
	CloseNotInvoiced = "notinvoiced"
)

// CheckDetails describes the check used to pay an invoice. The fields may be
// blank, only the presence of the object is checked.
type CheckDetails struct {
	Bank   string `json:"bank"`
	Payer  string `json:"payer"`
	Number string `json:"number"`
}

// CloseRequest is the payload that closes an examination.
type CloseRequest struct {
	Status      string        `json:"status"`
	Reason      string        `json:"reason"`
	PaymentMode string        `json:"payment_mode"`
	Amount      float64       `json:"amount"`
	Check       *CheckDetails `json:"check"`
}

// Validate checks the payload field by field and returns every violation at
// once, keyed by field name.
func (r *CloseRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}

	switch r.Status {
	case CloseInvoiced:
		switch r.PaymentMode {
		case PaymentCheck:
			if r.Check == nil {
				errs["check"] = "check details are required when paying by check"
			}
		case PaymentCash, PaymentNotPaid:
		case "":
			errs["payment_mode"] = "payment_mode is required"
		default:
			errs["payment_mode"] = "payment_mode must be check, cash or notpaid"
		}
		if r.Amount <= 0 {
			errs["amount"] = "amount must be greater than zero"
		}
	case CloseNotInvoiced:
		if strings.TrimSpace(r.Reason) == "" {
			errs["reason"] = "reason is required when not invoicing"
		}
	case "":
		errs["status"] = "status is required"
	default:
		errs["status"] = "status must be invoiced or notinvoiced"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
