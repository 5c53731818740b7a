package api_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kod2ulz/paga-business/api"
	"github.com/kod2ulz/paga-business/client"
)

var _ = Describe("Operations", func() {

	It("lists every operation once in name order", func() {
		ops := api.Operations()
		Expect(ops).To(HaveLen(21))
		for i := 1; i < len(ops); i++ {
			Expect(ops[i-1].Name < ops[i].Name).To(BeTrue())
		}
	})

	DescribeTable("signature field order",
		func(name string, transport client.Transport, fields []string) {
			op, ok := api.Lookup(name)
			Expect(ok).To(BeTrue())
			Expect(op.Transport).To(Equal(transport))
			Expect(op.SignatureFields).To(Equal(fields))
		},
		Entry("getBanks", "getBanks", client.TransportJSON, []string{"referenceNumber"}),
		Entry("moneyTransfer", "moneyTransfer", client.TransportJSON, []string{"referenceNumber", "amount", "destinationAccount"}),
		Entry("airtimePurchase", "airtimePurchase", client.TransportJSON, []string{"referenceNumber", "amount", "destinationPhoneNumber"}),
		Entry("depositToBank", "depositToBank", client.TransportJSON, []string{"referenceNumber", "amount", "destinationBankUUID", "destinationBankAccountNumber"}),
		Entry("registerCustomerAccountPhoto", "registerCustomerAccountPhoto", client.TransportMultipart, []string{"referenceNumber", "customerPhoneNumber"}),
		Entry("registerCustomerIdentification", "registerCustomerIdentification", client.TransportMultipart, []string{"referenceNumber", "customerPhoneNumber", "customerIdType", "customerIdNumber", "customerIdExpirationDate"}),
		Entry("merchantPayment", "merchantPayment", client.TransportJSON, []string{"referenceNumber", "amount", "merchantAccount", "merchantReferenceNumber"}),
	)

	It("routes recent history to the history endpoint", func() {
		op, ok := api.Lookup("recentTransactionHistory")
		Expect(ok).To(BeTrue())
		Expect(op.Path).To(Equal("transactionHistory"))
	})

	It("hands out copies of the field list", func() {
		op, _ := api.Lookup("moneyTransfer")
		op.SignatureFields[0] = "tampered"
		again, _ := api.Lookup("moneyTransfer")
		Expect(again.SignatureFields[0]).To(Equal("referenceNumber"))
	})

	It("reports unknown names", func() {
		_, ok := api.Lookup("refund")
		Expect(ok).To(BeFalse())
	})
})
