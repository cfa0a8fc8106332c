package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("TickingComponent", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
		ticker   *MockTicker
		comp     *TickingComponent
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
		ticker = NewMockTicker(mockCtrl)
		comp = NewTickingComponent("Comp", engine, 1*GHz, ticker)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should tick until no progress is made", func() {
		ticker.EXPECT().Tick().Return(true).Times(3)
		ticker.EXPECT().Tick().Return(false)

		comp.TickLater()

		Expect(engine.Run()).To(Succeed())
	})

	It("should not schedule the same cycle twice", func() {
		ticker.EXPECT().Tick().Return(false)

		comp.TickLater()
		comp.TickLater()

		Expect(engine.Run()).To(Succeed())
	})
})
