package sim

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("EventLogger", func() {
	It("should log handled events", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		defer mockCtrl.Finish()

		engine := NewSerialEngine()
		buf := &bytes.Buffer{}
		engine.AcceptHook(NewEventLogger(log.New(buf, "", 0)))

		handler := NewMockHandler(mockCtrl)
		evt := NewMockEvent(mockCtrl)
		evt.EXPECT().Time().Return(VTimeInSec(1.0)).AnyTimes()
		evt.EXPECT().Handler().Return(handler).AnyTimes()
		handler.EXPECT().Handle(evt).Return(nil)

		engine.Schedule(evt)
		Expect(engine.Run()).To(Succeed())

		Expect(buf.String()).ToNot(BeEmpty())
	})
})
