package api

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/kod2ulz/paga-business/client"
	"github.com/pkg/errors"
)

type requestDefaults interface {
	LoadRequestDefaults() error
}

func newReference() string {
	return uuid.New().String()
}

// NewAmount wraps a decimal amount as written by the caller. A nil amount is sent as null.
func NewAmount(amount string) *json.Number {
	out := json.Number(amount)
	return &out
}

// Reference is the client generated number that identifies a transaction for reconciliation.
type Reference struct {
	ReferenceNumber string `json:"referenceNumber"`
}

func (r *Reference) LoadRequestDefaults() (err error) {
	if r.ReferenceNumber == "" {
		r.ReferenceNumber = newReference()
	}
	return
}

// Photos are attachment references: local file paths or minio://bucket/key.
type Photos struct {
	AccountPhoto string `json:"accountPhoto,omitempty"`
	IdPhoto      string `json:"idPhoto,omitempty"`
}

type MerchantServicesRequest struct {
	Reference
	MerchantPublicId string `json:"merchantPublicId"`
}

type RegisterCustomerRequest struct {
	Reference
	CustomerPhoneNumber string `json:"customerPhoneNumber"`
	CustomerFirstName   string `json:"customerFirstName"`
	CustomerLastName    string `json:"customerLastName"`
	CustomerEmail       string `json:"customerEmail"`
	CustomerDateOfBirth string `json:"customerDateOfBirth"`
}

type CustomerIdentificationRequest struct {
	Reference
	CustomerPhoneNumber      string `json:"customerPhoneNumber"`
	CustomerIdType           string `json:"customerIdType"`
	CustomerIdNumber         string `json:"customerIdNumber"`
	CustomerIdExpirationDate string `json:"customerIdExpirationDate"`
	Photos                   Photos `json:"-"`
}

type CustomerAccountPhotoRequest struct {
	Reference
	CustomerPhoneNumber string `json:"customerPhoneNumber"`
	Photos              Photos `json:"-"`
}

type MoneyTransferRequest struct {
	Reference
	Amount                   *json.Number `json:"amount,string"`
	DestinationAccount       string       `json:"destinationAccount"`
	SenderPrincipal          *string      `json:"senderPrincipal"`
	SenderCredentials        *string      `json:"senderCredentials"`
	Currency                 *string      `json:"currency"`
	DestinationBank          *string      `json:"destinationBank"`
	SendWithdrawalCode       *bool        `json:"sendWithdrawalCode"`
	TransferReference        *string      `json:"transferReference"`
	SourceOfFunds            *string      `json:"sourceOfFunds"`
	SuppressRecipientMessage *bool        `json:"suppressRecipientMessage"`
	Locale                   *string      `json:"locale"`
	AlternateSenderName      *string      `json:"alternateSenderName"`
	MinRecipientKYCLevel     *string      `json:"minRecipientKYCLevel"`
	HoldingPeriod            *int         `json:"holdingPeriod"`
}

type AirtimePurchaseRequest struct {
	Reference
	Amount                 *json.Number `json:"amount,string"`
	DestinationPhoneNumber string       `json:"destinationPhoneNumber"`
}

type ValidateDepositToBankRequest struct {
	Reference
	Amount                       *json.Number `json:"amount,string"`
	DestinationBankUUID          string       `json:"destinationBankUUID"`
	DestinationBankAccountNumber string       `json:"destinationBankAccountNumber"`
}

type DepositToBankRequest struct {
	ValidateDepositToBankRequest
	RecipientPhoneNumber string `json:"recipientPhoneNumber"`
	Currency             string `json:"currency"`
}

type MoneyTransferBulkRequest struct {
	BulkReferenceNumber string                 `json:"bulkReferenceNumber"`
	Items               []MoneyTransferRequest `json:"items"`
}

func (r *MoneyTransferBulkRequest) LoadRequestDefaults() (err error) {
	if len(r.Items) == 0 {
		return errors.Errorf("bulk money transfer requires at least one item")
	} else if r.BulkReferenceNumber == "" {
		r.BulkReferenceNumber = newReference()
	}
	for i := range r.Items {
		if err = r.Items[i].LoadRequestDefaults(); err != nil {
			return
		}
	}
	return
}

// loadParamDefaults applies the request defaults to a raw parameter map. The caller's map is
// copied, never modified.
func loadParamDefaults(op client.Operation, params client.Params) (out client.Params, err error) {
	out = make(client.Params, len(params))
	for k, v := range params {
		out[k] = v
	}
	if op.Name == moneyTransferBulk.Name {
		return out, loadBulkParamDefaults(out)
	} else if len(op.SignatureFields) > 0 {
		if field := op.SignatureFields[0]; field == referenceNumber || field == "reference" {
			fillReference(out, field)
		}
	}
	return
}

func loadBulkParamDefaults(params client.Params) (err error) {
	var items []any
	switch v := params["items"].(type) {
	case []any:
		items = v
	case []map[string]any:
		for i := range v {
			items = append(items, v[i])
		}
	}
	if len(items) == 0 {
		return errors.Errorf("bulk money transfer requires at least one item")
	}
	fillReference(params, "bulkReferenceNumber")
	out := make([]any, len(items))
	for i := range items {
		item, ok := items[i].(map[string]any)
		if !ok {
			return errors.Errorf("bulk money transfer item %d is not an object", i)
		}
		copied := make(map[string]any, len(item)+1)
		for k, v := range item {
			copied[k] = v
		}
		fillReference(copied, referenceNumber)
		out[i] = copied
	}
	params["items"] = out
	return
}

func fillReference(params map[string]any, field string) {
	if val := params[field]; val == nil || val == "" {
		params[field] = newReference()
	}
}

type MerchantPaymentRequest struct {
	Reference
	Amount                  *json.Number `json:"amount,string"`
	MerchantAccount         string       `json:"merchantAccount"`
	MerchantReferenceNumber string       `json:"merchantReferenceNumber"`
	Currency                string       `json:"currency"`
	MerchantService         []string     `json:"merchantService"`
}

type LegalEntity struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	AddressLine1   string `json:"addressLine1,omitempty"`
	AddressLine2   string `json:"addressLine2,omitempty"`
	AddressCity    string `json:"addressCity,omitempty"`
	AddressState   string `json:"addressState,omitempty"`
	AddressZip     string `json:"addressZip,omitempty"`
	AddressCountry string `json:"addressCountry,omitempty"`
}

type LegalEntityRepresentative struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

type MerchantInfo struct {
	LegalEntity               LegalEntity               `json:"legalEntity"`
	LegalEntityRepresentative LegalEntityRepresentative `json:"legalEntityRepresentative"`
	AdditionalParameters      map[string]any            `json:"additionalParameters,omitempty"`
}

type OnboardMerchantRequest struct {
	Reference          string         `json:"reference"`
	MerchantExternalId string         `json:"merchantExternalId"`
	MerchantInfo       MerchantInfo   `json:"merchantInfo"`
	Integration        map[string]any `json:"integration"`
}

func (r *OnboardMerchantRequest) LoadRequestDefaults() (err error) {
	if r.Reference == "" {
		r.Reference = newReference()
	}
	return
}

type ValidateCustomerRequest struct {
	Reference
	CustomerIdentifier string `json:"customerIdentifier"`
}

type PersistentPaymentAccountRequest struct {
	Reference
	PhoneNumber                   string `json:"phoneNumber"`
	AccountName                   string `json:"accountName"`
	FirstName                     string `json:"firstName"`
	LastName                      string `json:"lastName"`
	FinancialIdentificationNumber string `json:"financialIdentificationNumber"`
	Email                         string `json:"email"`
	AccountReference              string `json:"accountReference"`
}

type PersistentPaymentAccountActivityRequest struct {
	Reference
	AccountNumber           string `json:"accountNumber"`
	GetLatestSingleActivity *bool  `json:"getLatestSingleActivity"`
	StartDate               string `json:"startDate"`
	EndDate                 string `json:"endDate"`
	AccountReference        string `json:"accountReference"`
}
