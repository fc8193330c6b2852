package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	s.loaded = true
	return s.err
}

func TestManager_LoadAll(t *testing.T) {
	objects := &stubFeature{name: "objects", enabled: true}
	disabled := &stubFeature{name: "disabled"}

	mgr := NewManager()
	mgr.Register(objects)
	mgr.Register(disabled)

	assert.Len(t, mgr.Features(), 2)
	assert.NoError(t, mgr.LoadAll(fiber.New()))
	assert.True(t, objects.loaded)
	assert.False(t, disabled.loaded)
}

func TestManager_LoadAllError(t *testing.T) {
	broken := &stubFeature{name: "broken", enabled: true, err: errors.New("boom")}
	after := &stubFeature{name: "after", enabled: true}

	mgr := NewManager()
	mgr.Register(broken)
	mgr.Register(after)

	err := mgr.LoadAll(fiber.New())
	assert.ErrorContains(t, err, "failed to load feature broken")
	assert.False(t, after.loaded)
}
