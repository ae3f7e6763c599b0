package redact_test

import (
	"net/http"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/school-admin/internal/transport/redact"
)

func TestRedact(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Redact Suite")
}

var _ = Describe("Redact", func() {
	It("masks the password of a login body", func() {
		out := redact.Body([]byte(`{"nombre":"marta","contraseña":"hunter2"}`))
		Expect(out).To(ContainSubstring(`"nombre":"marta"`))
		Expect(out).NotTo(ContainSubstring("hunter2"))
	})

	It("masks nested tokens", func() {
		out := redact.Body([]byte(`{"token":"abc","user":{"id":1}}`))
		Expect(out).NotTo(ContainSubstring("abc"))
		Expect(out).To(ContainSubstring(`"id":1`))
	})

	It("masks the authorization header", func() {
		h := http.Header{}
		h.Set("Authorization", "Bearer abc")
		h.Set("X-Trace-ID", "t-1")
		out := redact.Headers(h)
		Expect(out["Authorization"]).To(Equal(redact.Mask))
		Expect(out["X-Trace-Id"]).To(Equal("t-1"))
	})

	It("passes plain bodies through", func() {
		Expect(redact.Body([]byte("pong"))).To(Equal("pong"))
		Expect(redact.Body(nil)).To(BeEmpty())
	})
})
