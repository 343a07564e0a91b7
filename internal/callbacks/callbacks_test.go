package callbacks

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/studyhub/webclient/pkg/model"
)

func TestCallback(t *testing.T) {
	c := New[*model.Invitation]()

	var got atomic.Int32

	c.AddCallback("a", func(msg *model.Invitation) bool {
		got.Add(1)

		return true
	})

	c.AddMessage(&model.Invitation{ID: 1, Status: model.StatusPending})
	c.AddMessage(&model.Invitation{ID: 2, Status: model.StatusAccepted})

	assert.Eventually(t, func() bool { return got.Load() == 2 }, time.Second, time.Millisecond*10)

	assert.True(t, c.RemoveCallback("a"))
	assert.False(t, c.RemoveCallback("a"))
}

func TestCallbackSelfRemove(t *testing.T) {
	c := New[*model.Invitation]()

	var got atomic.Int32

	c.AddCallback("once", func(msg *model.Invitation) bool {
		got.Add(1)

		return false
	})

	c.AddMessage(&model.Invitation{ID: 1})

	assert.Eventually(t, func() bool { return got.Load() == 1 }, time.Second, time.Millisecond*10)

	// the listener unregistered itself after the first message
	assert.Eventually(t, func() bool { return !c.RemoveCallback("once") }, time.Second, time.Millisecond*10)
}
