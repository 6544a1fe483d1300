package progress_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/quick/internal/adapters/progress"
)

func TestBar_Advance(t *testing.T) {
	bar := progress.NewBar(&bytes.Buffer{})

	bar.Start(3)
	bar.Advance("serde@1.0.0")
	bar.Advance("cc@1.0.0")

	assert.Equal(t, 2, bar.Done())

	bar.Finish()
	assert.Equal(t, 0, bar.Done())
}

func TestBar_AdvanceBeforeStart(t *testing.T) {
	bar := progress.NewBar(&bytes.Buffer{})
	bar.Advance("ignored")
	bar.Finish()
	assert.Equal(t, 0, bar.Done())
}

func TestBar_ConcurrentAdvance(t *testing.T) {
	bar := progress.NewBar(&bytes.Buffer{})
	bar.Start(16)

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() { bar.Advance("pkg") })
	}
	wg.Wait()

	assert.Equal(t, 16, bar.Done())
}
