package kyc

import (
	"encoding/json"
	"time"
)

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentVerified DocumentStatus = "verified"
	DocumentRejected DocumentStatus = "rejected"
)

type RecordStatus string

const (
	RecordPending  RecordStatus = "pending"
	RecordApproved RecordStatus = "approved"
	RecordRejected RecordStatus = "rejected"
)

type AadharGroup struct {
	AadharNumber   string         `json:"aadharNumber"`
	AadharFront    string         `json:"aadharFront"`
	AadharBack     string         `json:"aadharBack"`
	DocumentStatus DocumentStatus `json:"documentStatus"`
}

type PANGroup struct {
	PANNumber      string         `json:"panNumber"`
	PANFront       string         `json:"panFront"`
	PANBack        string         `json:"panBack,omitempty"`
	DocumentStatus DocumentStatus `json:"documentStatus"`
}

// Submission is the create body. Optional values are omitted, never sent
// empty.
type Submission struct {
	Aadhar            AadharGroup `json:"aadhar"`
	PAN               PANGroup    `json:"pan"`
	IFSC              string      `json:"ifsc,omitempty"`
	AccountNumber     string      `json:"accountNumber,omitempty"`
	AccountHolderName string      `json:"accountHolderName,omitempty"`
	BankName          string      `json:"bankName,omitempty"`
	BranchName        string      `json:"branchName,omitempty"`
	BankDocument      string      `json:"bankDocument,omitempty"`
	GSTNumber         string      `json:"gstNumber,omitempty"`
	GSTCertificate    string      `json:"gstCertificate,omitempty"`
	BusinessType      string      `json:"businessType"`
}

// Record is a stored KYC submission as the backend returns it.
type Record struct {
	ID                string       `json:"id"`
	Status            RecordStatus `json:"status"`
	Aadhar            AadharGroup  `json:"aadhar"`
	PAN               PANGroup     `json:"pan"`
	IFSC              string       `json:"ifsc,omitempty"`
	AccountNumber     string       `json:"accountNumber,omitempty"`
	AccountHolderName string       `json:"accountHolderName,omitempty"`
	BankName          string       `json:"bankName,omitempty"`
	BranchName        string       `json:"branchName,omitempty"`
	BankDocument      string       `json:"bankDocument,omitempty"`
	GSTNumber         string       `json:"gstNumber,omitempty"`
	GSTCertificate    string       `json:"gstCertificate,omitempty"`
	BusinessType      string       `json:"businessType,omitempty"`
	RejectionReason   string       `json:"rejectionReason,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
}

// UnmarshalJSON also accepts the document database's "_id".
func (r *Record) UnmarshalJSON(b []byte) error {
	type plain Record
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = Record(aux.plain)
	if r.ID == "" {
		r.ID = aux.MongoID
	}
	return nil
}

// Response is the backend's envelope for mutations and the status query.
type Response struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    *ResponseData `json:"data,omitempty"`
}

type ResponseData struct {
	KYCID       string       `json:"kycId"`
	Status      RecordStatus `json:"status"`
	SubmittedAt string       `json:"submittedAt"`
}

func buildSubmission(form *Form, s Scalars) Submission {
	businessType := s.BusinessType
	if businessType == "" {
		businessType = BusinessIndividual
	}

	return Submission{
		Aadhar: AadharGroup{
			AadharNumber:   s.AadharNumber,
			AadharFront:    form.remoteURL(FieldAadharFront),
			AadharBack:     form.remoteURL(FieldAadharBack),
			DocumentStatus: DocumentPending,
		},
		PAN: PANGroup{
			PANNumber:      s.PANNumber,
			PANFront:       form.remoteURL(FieldPanFront),
			PANBack:        form.remoteURL(FieldPanBack),
			DocumentStatus: DocumentPending,
		},
		IFSC:              s.IFSC,
		AccountNumber:     s.AccountNumber,
		AccountHolderName: s.AccountHolderName,
		BankName:          s.BankName,
		BranchName:        s.BranchName,
		BankDocument:      form.remoteURL(FieldBankDocument),
		GSTNumber:         s.GSTNumber,
		GSTCertificate:    form.remoteURL(FieldGSTCertificate),
		BusinessType:      businessType,
	}
}
