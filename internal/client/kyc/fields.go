// Package kyc assembles identity-document submissions: the form's upload
// tasks and scalar fields, the submission coordinator and the backend API.
package kyc

import "github.com/shipseva/docupload/internal/client/upload"

const (
	FieldPanFront       = "panFront"
	FieldPanBack        = "panBack"
	FieldAadharFront    = "aadharFront"
	FieldAadharBack     = "aadharBack"
	FieldGSTCertificate = "gstCertificate"
	FieldBankDocument   = "bankDocument"
)

// Field describes one document slot of the KYC form.
type Field struct {
	Name         string
	DocumentType string
	Mandatory    bool
	Policy       upload.Policy
	// MissingMessage is shown when a mandatory field has no file.
	MissingMessage string
}

// Fields returns the catalogue in form order.
func Fields() []Field {
	return []Field{
		{Name: FieldPanFront, DocumentType: "pan_front", Mandatory: true, Policy: upload.DefaultPolicy(), MissingMessage: "PAN document is required"},
		{Name: FieldPanBack, DocumentType: "pan_back", Policy: upload.DefaultPolicy()},
		{Name: FieldAadharFront, DocumentType: "aadhar_front", Mandatory: true, Policy: upload.ImagePolicy(), MissingMessage: "Aadhar front document is required"},
		{Name: FieldAadharBack, DocumentType: "aadhar_back", Mandatory: true, Policy: upload.ImagePolicy(), MissingMessage: "Aadhar back document is required"},
		{Name: FieldGSTCertificate, DocumentType: "gst_certificate", Policy: upload.DefaultPolicy()},
		{Name: FieldBankDocument, DocumentType: "bank_document", Policy: upload.DefaultPolicy()},
	}
}

// FieldByName looks a field up in the catalogue.
func FieldByName(name string) (Field, bool) {
	for _, f := range Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
