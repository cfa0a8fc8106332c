package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should handle events in time order", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		evt1 := NewMockEvent(mockCtrl)
		evt2 := NewMockEvent(mockCtrl)
		evt3 := NewMockEvent(mockCtrl)

		evt1.EXPECT().Time().Return(VTimeInSec(4.0)).AnyTimes()
		evt1.EXPECT().Handler().Return(handler1).AnyTimes()
		evt2.EXPECT().Time().Return(VTimeInSec(2.0)).AnyTimes()
		evt2.EXPECT().Handler().Return(handler2).AnyTimes()
		evt3.EXPECT().Time().Return(VTimeInSec(3.0)).AnyTimes()
		evt3.EXPECT().Handler().Return(handler1).AnyTimes()

		handleEvt2 := handler2.EXPECT().
			Handle(evt2).
			Do(func(_ Event) { engine.Schedule(evt3) }).
			Return(nil)
		handleEvt3 := handler1.EXPECT().
			Handle(evt3).
			Return(nil).
			After(handleEvt2)
		handler1.EXPECT().
			Handle(evt1).
			Return(nil).
			After(handleEvt3)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(Succeed())
		Expect(engine.CurrentTime()).To(BeNumerically("~", 4.0, 1e-12))
	})

	It("should panic when scheduling an event in the past", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := NewMockEvent(mockCtrl)
		evt1.EXPECT().Time().Return(VTimeInSec(2.0)).AnyTimes()
		evt1.EXPECT().Handler().Return(handler).AnyTimes()
		handler.EXPECT().Handle(evt1).Return(nil)

		engine.Schedule(evt1)
		Expect(engine.Run()).To(Succeed())

		evtPast := NewMockEvent(mockCtrl)
		evtPast.EXPECT().Time().Return(VTimeInSec(1.0)).AnyTimes()

		Expect(func() { engine.Schedule(evtPast) }).To(Panic())
	})

	It("should call simulation end handlers", func() {
		called := 0
		engine.RegisterSimulationEndHandler(
			simulationEndFunc(func(VTimeInSec) { called++ }))

		engine.Finished()

		Expect(called).To(Equal(1))
	})
})

type simulationEndFunc func(now VTimeInSec)

func (f simulationEndFunc) Handle(now VTimeInSec) {
	f(now)
}
