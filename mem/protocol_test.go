package mem

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RequestBuilder", func() {
	It("should build a scalar read", func() {
		req := RequestBuilder{}.
			WithSource(SourceProcessor).
			WithKind(AccessRead).
			WithAddress(100).
			Build()

		Expect(req.ID).ToNot(BeEmpty())
		Expect(req.Source).To(Equal(SourceProcessor))
		Expect(req.Address).To(Equal(uint64(100)))
		Expect(req.Length).To(Equal(1))
		Expect(req.IsRead()).To(BeTrue())
	})

	It("should size a write by its data", func() {
		req := RequestBuilder{}.
			WithKind(AccessWrite).
			WithData([]uint32{1, 2, 3}).
			Build()

		Expect(req.Length).To(Equal(3))
		Expect(req.IsRead()).To(BeFalse())
	})

	It("should build a burst read", func() {
		req := RequestBuilder{}.
			WithSource(SourceScanout).
			WithKind(AccessBurstRead).
			WithLength(160).
			Build()

		Expect(req.Length).To(Equal(160))
		Expect(req.IsRead()).To(BeTrue())
	})

	It("should generate unique IDs", func() {
		req1 := RequestBuilder{}.Build()
		req2 := RequestBuilder{}.Build()

		Expect(req1.ID).ToNot(Equal(req2.ID))
	})
})

var _ = Describe("Source", func() {
	It("should order sources by priority", func() {
		Expect(SourceLoader < SourceProcessor).To(BeTrue())
		Expect(SourceProcessor < SourceScanout).To(BeTrue())
	})

	It("should print source names", func() {
		Expect(SourceLoader.String()).To(Equal("Loader"))
		Expect(SourceProcessor.String()).To(Equal("Processor"))
		Expect(SourceScanout.String()).To(Equal("Scanout"))
	})
})
