package server

import (
	"sync/atomic"

	"github.com/katalvlaran/mensura/converter"
	"github.com/katalvlaran/mensura/core"
)

// Holder publishes the converter currently serving requests.
//
// Requests load the pointer once and run against that converter; a reload
// builds a fresh converter and swaps it in, so no request ever observes a
// half-registered catalog.
type Holder struct {
	current atomic.Pointer[converter.Converter]
}

// NewHolder returns a Holder serving c. c must not be nil.
func NewHolder(c *converter.Converter) *Holder {
	h := &Holder{}
	h.current.Store(c)
	unitsGauge.Set(float64(len(c.Units())))

	return h
}

// Load returns the converter to use for one request.
func (h *Holder) Load() *converter.Converter {
	return h.current.Load()
}

// Swap replaces the served converter and returns the previous one.
func (h *Holder) Swap(c *converter.Converter) *converter.Converter {
	old := h.current.Swap(c)
	unitsGauge.Set(float64(len(c.Units())))

	return old
}

// Rebuild builds a converter from rules with opts and swaps it in. On error
// the current converter keeps serving.
func (h *Holder) Rebuild(rules []core.Rule, opts ...converter.Option) error {
	c, err := converter.New(rules, opts...)
	if err != nil {
		catalogReloads.WithLabelValues("error").Inc()
		return err
	}
	h.Swap(c)
	catalogReloads.WithLabelValues("ok").Inc()

	return nil
}
