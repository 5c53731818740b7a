package client_test

import (
	"fmt"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kod2ulz/paga-business/client"
)

var _ = Describe("Identity", func() {

	It("builds without validating", func() {
		identity := client.Builder().Principal("p").Build()
		Expect(identity.Principal()).To(Equal("p"))
		Expect(identity.UseTestEnvironment()).To(BeFalse())
	})

	It("reports every missing field", func() {
		err := client.Builder().Principal("p").Build().Validate()
		Expect(client.IsConfigurationError(err)).To(BeTrue())
		Expect(err.(*client.ConfigurationError).Fields).To(ConsistOf("apiKey", "credential"))
	})

	It("masks secrets when printed", func() {
		identity := client.Builder().ApiKey(testApiKey).Principal("merchant").Credential("cred-secret").Build()
		for _, out := range []string{identity.String(), fmt.Sprintf("%v", identity), fmt.Sprintf("%#v", identity), fmt.Sprintf("%+v", identity)} {
			Expect(out).NotTo(ContainSubstring(testApiKey))
			Expect(out).NotTo(ContainSubstring("cred-secret"))
			Expect(out).To(ContainSubstring("merchant"))
		}
	})

	It("signs with the api key", func() {
		Expect(testIdentity().Sign([]string{"R1"})).To(Equal(sha512Hex("R1", testApiKey)))
	})
})

var _ = Describe("Config", func() {

	setenv := func(key, value string) {
		previous, ok := os.LookupEnv(key)
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(func() {
			if ok {
				os.Setenv(key, previous)
			} else {
				os.Unsetenv(key)
			}
		})
	}

	It("reads the client environment", func() {
		setenv("PAGA_CLIENT_API_KEY", "k")
		setenv("PAGA_CLIENT_PRINCIPAL", "p")
		setenv("PAGA_CLIENT_CREDENTIAL", "c")
		setenv("PAGA_CLIENT_TEST", "false")
		setenv("PAGA_CLIENT_TIMEOUT", "30s")

		conf := client.NewPagaClientConfig()
		Expect(conf.ApiKey).To(Equal("k"))
		Expect(conf.Test).To(BeFalse())
		Expect(conf.Timeout).To(Equal(30 * time.Second))

		identity := conf.Identity()
		Expect(identity.Validate()).To(BeNil())
		Expect(identity.Principal()).To(Equal("p"))
		Expect(identity.Credential()).To(Equal("c"))
	})

	It("falls back to the default timeouts", func() {
		conf := client.PagaConfig{}
		Expect(conf.Dispatcher().Timeout).To(Equal(client.DefaultTimeout))
		Expect(conf.Dispatcher().ConnectTimeout).To(Equal(client.DefaultTimeout))
	})
})
