package mem

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Storage", func() {
	var storage *Storage

	BeforeEach(func() {
		storage = NewStorage(4 * MB)
	})

	It("should read and write bytes", func() {
		err := storage.Write(1000, []byte{1, 2, 3, 4})
		Expect(err).ToNot(HaveOccurred())

		data, err := storage.Read(1000, 4)
		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(Equal([]byte{1, 2, 3, 4}))
	})

	It("should read zeros from untouched memory", func() {
		data, err := storage.Read(2000, 4)
		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(Equal([]byte{0, 0, 0, 0}))
	})

	It("should write across unit boundaries", func() {
		payload := make([]byte, 8192)
		for i := range payload {
			payload[i] = byte(i)
		}

		err := storage.Write(4000, payload)
		Expect(err).ToNot(HaveOccurred())

		data, err := storage.Read(4000, 8192)
		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(Equal(payload))
	})

	It("should reject access beyond the capacity", func() {
		err := storage.Write(4*MB, []byte{1})
		Expect(err).To(HaveOccurred())

		_, err = storage.Read(4*MB, 1)
		Expect(err).To(HaveOccurred())
	})

	It("should read and write words little-endian", func() {
		err := storage.WriteWord(10, 0xDEADBEEF)
		Expect(err).ToNot(HaveOccurred())

		v, err := storage.ReadWord(10)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(uint32(0xDEADBEEF)))

		data, err := storage.Read(40, 4)
		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(Equal([]byte{0xEF, 0xBE, 0xAD, 0xDE}))
	})

	It("should report capacity in words", func() {
		Expect(storage.CapacityWords()).To(Equal(uint64(1 << 20)))
	})
})
