package shell

import (
	"testing"

	"go.trai.ch/quick/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestLogWriter_BuffersPartialLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	gomock.InOrder(
		log.EXPECT().Info("first line"),
		log.EXPECT().Info("second line"),
		log.EXPECT().Info("tail"),
	)

	w := &logWriter{logger: log}
	_, _ = w.Write([]byte("first "))
	_, _ = w.Write([]byte("line\nsecond line\r\n\n"))
	_, _ = w.Write([]byte("tail"))
	w.Flush()
	w.Flush()
}
