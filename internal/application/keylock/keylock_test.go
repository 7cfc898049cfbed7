package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap_SerializesSameKey(t *testing.T) {
	locks := New()
	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("user-1")
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Zero(t, locks.Len())
}

func TestMap_IndependentKeys(t *testing.T) {
	locks := New()

	unlockA := locks.Lock("a")
	unlockB := locks.Lock("b")

	assert.Equal(t, 2, locks.Len())
	unlockA()
	unlockB()
	assert.Zero(t, locks.Len())
}
