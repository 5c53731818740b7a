package api

import (
	"sort"

	"github.com/kod2ulz/paga-business/client"
)

const referenceNumber = "referenceNumber"

func jsonOperation(name, path string, fields ...string) client.Operation {
	return client.Operation{Name: name, Path: path, SignatureFields: fields, Transport: client.TransportJSON}
}

func multipartOperation(name, path string, fields ...string) client.Operation {
	return client.Operation{Name: name, Path: path, SignatureFields: fields, Transport: client.TransportMultipart}
}

var (
	getBanks                            = jsonOperation("getBanks", "getBanks", referenceNumber)
	getMerchants                        = jsonOperation("getMerchants", "getMerchants", referenceNumber)
	getMerchantServices                 = jsonOperation("getMerchantServices", "getMerchantServices", referenceNumber, "merchantPublicId")
	getOperationStatus                  = jsonOperation("getOperationStatus", "getOperationStatus", referenceNumber)
	getMobileOperators                  = jsonOperation("getMobileOperators", "getMobileOperators", referenceNumber)
	registerCustomer                    = jsonOperation("registerCustomer", "registerCustomer", referenceNumber, "customerPhoneNumber", "customerFirstName", "customerLastName")
	registerCustomerIdentification      = multipartOperation("registerCustomerIdentification", "registerCustomerIdentification", referenceNumber, "customerPhoneNumber", "customerIdType", "customerIdNumber", "customerIdExpirationDate")
	registerCustomerAccountPhoto        = multipartOperation("registerCustomerAccountPhoto", "registerCustomerAccountPhoto", referenceNumber, "customerPhoneNumber")
	moneyTransfer                       = jsonOperation("moneyTransfer", "moneyTransfer", referenceNumber, "amount", "destinationAccount")
	airtimePurchase                     = jsonOperation("airtimePurchase", "airtimePurchase", referenceNumber, "amount", "destinationPhoneNumber")
	accountBalance                      = jsonOperation("accountBalance", "accountBalance", referenceNumber)
	depositToBank                       = jsonOperation("depositToBank", "depositToBank", referenceNumber, "amount", "destinationBankUUID", "destinationBankAccountNumber")
	validateDepositToBank               = jsonOperation("validateDepositToBank", "validateDepositToBank", referenceNumber, "amount", "destinationBankUUID", "destinationBankAccountNumber")
	moneyTransferBulk                   = jsonOperation("moneyTransferBulk", "moneyTransferBulk", "items.0.referenceNumber", "items.0.amount", "items.0.destinationAccount", "items.#")
	merchantPayment                     = jsonOperation("merchantPayment", "merchantPayment", referenceNumber, "amount", "merchantAccount", "merchantReferenceNumber")
	transactionHistory                  = jsonOperation("transactionHistory", "transactionHistory", referenceNumber)
	recentTransactionHistory            = jsonOperation("recentTransactionHistory", "transactionHistory", referenceNumber)
	onboardMerchant                     = jsonOperation("onboardMerchant", "onboardMerchant", "reference", "merchantExternalId", "merchantInfo.legalEntity.name", "merchantInfo.legalEntityRepresentative.phone", "merchantInfo.legalEntityRepresentative.email")
	validateCustomer                    = jsonOperation("validateCustomer", "validateCustomer", referenceNumber, "customerIdentifier")
	registerPersistentPaymentAccount    = jsonOperation("registerPersistentPaymentAccount", "registerPersistentPaymentAccount", referenceNumber, "phoneNumber")
	getPersistentPaymentAccountActivity = jsonOperation("getPersistentPaymentAccountActivity", "getPersistentPaymentAccountActivity", referenceNumber)
)

var operations = func(ops ...client.Operation) map[string]client.Operation {
	out := make(map[string]client.Operation, len(ops))
	for _, op := range ops {
		out[op.Name] = op
	}
	return out
}(
	getBanks, getMerchants, getMerchantServices, getOperationStatus, getMobileOperators,
	registerCustomer, registerCustomerIdentification, registerCustomerAccountPhoto,
	moneyTransfer, airtimePurchase, accountBalance, depositToBank, validateDepositToBank,
	moneyTransferBulk, merchantPayment, transactionHistory, recentTransactionHistory,
	onboardMerchant, validateCustomer, registerPersistentPaymentAccount,
	getPersistentPaymentAccountActivity,
)

// Lookup returns the descriptor of a named operation.
func Lookup(name string) (out client.Operation, ok bool) {
	out, ok = operations[name]
	if ok {
		out.SignatureFields = append([]string(nil), out.SignatureFields...)
	}
	return
}

// Operations lists every supported operation ordered by name.
func Operations() (out []client.Operation) {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		op, _ := Lookup(name)
		out = append(out, op)
	}
	return
}
