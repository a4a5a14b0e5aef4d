package kyc

// Update is a partial update body. A nil group or value is left out of the
// JSON and stays as stored; a present group replaces the stored one and
// goes back to pending review.
type Update struct {
	Aadhar            *AadharGroup `json:"aadhar,omitempty"`
	PAN               *PANGroup    `json:"pan,omitempty"`
	IFSC              *string      `json:"ifsc,omitempty"`
	AccountNumber     *string      `json:"accountNumber,omitempty"`
	AccountHolderName *string      `json:"accountHolderName,omitempty"`
	BankName          *string      `json:"bankName,omitempty"`
	BranchName        *string      `json:"branchName,omitempty"`
	BankDocument      *string      `json:"bankDocument,omitempty"`
	GSTNumber         *string      `json:"gstNumber,omitempty"`
	GSTCertificate    *string      `json:"gstCertificate,omitempty"`
	BusinessType      *string      `json:"businessType,omitempty"`
}

// Empty reports whether u would change nothing.
func (u Update) Empty() bool {
	return u == Update{}
}

// Diff builds the update for rec from the values now in the form. urls maps
// field names to freshly uploaded object URLs. A document group is included
// when the backend rejected it or when any of its values changed; a scalar
// when it is set and differs from the record.
func Diff(rec Record, s Scalars, urls map[string]string) Update {
	var u Update

	aadhar := rec.Aadhar
	aadharChanged := pick(&aadhar.AadharNumber, s.AadharNumber)
	aadharChanged = pick(&aadhar.AadharFront, urls[FieldAadharFront]) || aadharChanged
	aadharChanged = pick(&aadhar.AadharBack, urls[FieldAadharBack]) || aadharChanged
	if aadharChanged || rec.Aadhar.DocumentStatus == DocumentRejected {
		aadhar.DocumentStatus = DocumentPending
		u.Aadhar = &aadhar
	}

	pan := rec.PAN
	panChanged := pick(&pan.PANNumber, s.PANNumber)
	panChanged = pick(&pan.PANFront, urls[FieldPanFront]) || panChanged
	panChanged = pick(&pan.PANBack, urls[FieldPanBack]) || panChanged
	if panChanged || rec.PAN.DocumentStatus == DocumentRejected {
		pan.DocumentStatus = DocumentPending
		u.PAN = &pan
	}

	u.IFSC = changed(rec.IFSC, s.IFSC)
	u.AccountNumber = changed(rec.AccountNumber, s.AccountNumber)
	u.AccountHolderName = changed(rec.AccountHolderName, s.AccountHolderName)
	u.BankName = changed(rec.BankName, s.BankName)
	u.BranchName = changed(rec.BranchName, s.BranchName)
	u.BankDocument = changed(rec.BankDocument, urls[FieldBankDocument])
	u.GSTNumber = changed(rec.GSTNumber, s.GSTNumber)
	u.GSTCertificate = changed(rec.GSTCertificate, urls[FieldGSTCertificate])
	u.BusinessType = changed(rec.BusinessType, s.BusinessType)

	return u
}

// pick overwrites *dst with v when v is set and different.
func pick(dst *string, v string) bool {
	if v == "" || v == *dst {
		return false
	}
	*dst = v
	return true
}

func changed(old, v string) *string {
	if v == "" || v == old {
		return nil
	}
	return &v
}
