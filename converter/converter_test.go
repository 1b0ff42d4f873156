package converter_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/katalvlaran/mensura/catalog"
	"github.com/katalvlaran/mensura/converter"
	"github.com/katalvlaran/mensura/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lengthRules is the meter/kilometer/mile chain used across tests.
func lengthRules() []core.Rule {
	return []core.Rule{
		{Src: "meter", Dest: "kilometer", Factor: 0.001},
		{Src: "kilometer", Dest: "mile", Factor: 0.621371},
	}
}

func newConverter(t *testing.T, rules []core.Rule, opts ...converter.Option) *converter.Converter {
	t.Helper()
	c, err := converter.New(rules, opts...)
	require.NoError(t, err)

	return c
}

func TestConvert_MeterKilometer(t *testing.T) {
	c := newConverter(t, []core.Rule{{Src: "meter", Dest: "kilometer", Factor: 0.001}})

	got, err := c.Convert(1000, "meter", "kilometer")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)

	got, err = c.Convert(1, "kilometer", "meter")
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, got, 1e-9)
}

func TestConvert_MultiHopWithoutDirectRule(t *testing.T) {
	c := newConverter(t, lengthRules())

	got, err := c.Convert(1000, "meter", "mile")
	require.NoError(t, err)
	assert.InDelta(t, 0.621371, got, 1e-12)

	got, err = c.Convert(0.621371, "mile", "meter")
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, got, 1e-9)
}

func TestConvert_Symmetry(t *testing.T) {
	rules := []core.Rule{
		{Src: "foot", Dest: "inch", Factor: 12},
		{Src: "pound", Dest: "ounce", Factor: 16},
		{Src: "liter", Dest: "milliliter", Factor: 1000},
		{Src: "hour", Dest: "minute", Factor: 60},
	}
	c := newConverter(t, rules)

	for _, r := range rules {
		for _, v := range []float64{0, 1, 2.5, -7, 1e6} {
			fwd, err := c.Convert(v, r.Src, r.Dest)
			require.NoError(t, err)
			assert.InDelta(t, v*r.Factor, fwd, 1e-9, "%s", r)

			back, err := c.Convert(v, r.Dest, r.Src)
			require.NoError(t, err)
			assert.InDelta(t, v/r.Factor, back, 1e-9, "%s reversed", r)
		}
	}
}

func TestConvert_IdentityIsExact(t *testing.T) {
	c := newConverter(t, lengthRules())
	for _, u := range c.Units() {
		for _, v := range []float64{0, 1, 0.1, -3.75, math.MaxFloat64} {
			got, err := c.Convert(v, u, u)
			require.NoError(t, err)
			assert.Equal(t, v, got, "unit %s", u)
		}
	}
}

func TestConvert_Transitivity(t *testing.T) {
	c := newConverter(t, []core.Rule{
		{Src: "a", Dest: "b", Factor: 3},
		{Src: "b", Dest: "c", Factor: 5},
	})
	got, err := c.Convert(2, "a", "c")
	require.NoError(t, err)
	assert.InDelta(t, 2*3*5.0, got, 1e-12)
}

func TestConvert_RoundedRoundTrips(t *testing.T) {
	tests := []struct {
		name     string
		rules    []core.Rule
		value    float64
		from, to string
		want     float64
	}{
		{"49 then 1000", []core.Rule{{Src: "a", Dest: "b", Factor: 49}, {Src: "b", Dest: "c", Factor: 1000}}, 1000, "a", "c", 4.8999999999999985e+07},
		{"centimeter to millimeter", catalog.Default(), 1, "centimeter", "millimeter", 9.999999999999986},
		{"decimeter to nanometer", catalog.Default(), 1, "decimeter", "nanometer", 9.999999999999991e+07},
		{"foot to inch", catalog.Default(), 1, "foot", "inch", 11.999999999999996},
		{"mile to kilometer", catalog.Default(), 1, "mile", "kilometer", 1.609344},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newConverter(t, tt.rules)
			got, err := c.Convert(tt.value, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvert_UnknownUnit(t *testing.T) {
	c := newConverter(t, lengthRules())

	_, err := c.Convert(1, "unknownunit", "meter")
	require.ErrorIs(t, err, converter.ErrUnitNotFound)
	assert.False(t, errors.Is(err, converter.ErrConversionFailed))

	var ce *converter.ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "unknownunit", ce.From)
	assert.Equal(t, "meter", ce.To)
	assert.Contains(t, err.Error(), `conversion from "unknownunit" to "meter"`)

	_, err = c.Convert(1, "meter", "parsec")
	assert.ErrorIs(t, err, converter.ErrUnitNotFound)

	_, err = c.Convert(1, "", "meter")
	assert.ErrorIs(t, err, converter.ErrUnitNotFound)
}

func TestConvert_DisconnectedGraph(t *testing.T) {
	rules := append(lengthRules(), core.Rule{Src: "gram", Dest: "kilogram", Factor: 0.001})
	c := newConverter(t, rules)

	_, err := c.Convert(1, "meter", "kilogram")
	require.ErrorIs(t, err, converter.ErrConversionFailed)
	assert.False(t, errors.Is(err, converter.ErrUnitNotFound))
	assert.Contains(t, err.Error(), `conversion from "meter" to "kilogram"`)
}

func TestConvert_CaseInsensitive(t *testing.T) {
	c := newConverter(t, lengthRules())

	lower, err := c.Convert(1234, "meter", "kilometer")
	require.NoError(t, err)
	mixed, err := c.Convert(1234, "METER", "Kilometer")
	require.NoError(t, err)
	assert.Equal(t, lower, mixed)
}

func TestFactorAndPath(t *testing.T) {
	c := newConverter(t, lengthRules())

	f, err := c.Factor("Meter", "Mile")
	require.NoError(t, err)
	assert.InDelta(t, 0.000621371, f, 1e-15)

	units, pf, err := c.Path("mile", "meter")
	require.NoError(t, err)
	assert.Equal(t, []string{"mile", "kilometer", "meter"}, units)
	assert.InDelta(t, 1/0.000621371, pf, 1e-6)

	_, _, err = c.Path("mile", "stone")
	assert.ErrorIs(t, err, converter.ErrUnitNotFound)
}

func TestAddConversion_IncrementalAndLastWriteWins(t *testing.T) {
	c := newConverter(t, nil)
	assert.Empty(t, c.Units())

	require.NoError(t, c.AddConversion(core.Rule{Src: "a", Dest: "b", Factor: 2}))
	require.NoError(t, c.AddConversion(core.Rule{Src: "A", Dest: "B", Factor: 4}))

	got, err := c.Convert(1, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)
	assert.True(t, c.HasUnit("B"))
}

func TestAddConversion_Validation(t *testing.T) {
	c := newConverter(t, nil)

	err := c.AddConversion(core.Rule{Src: "a", Dest: "b", Factor: 0})
	assert.ErrorIs(t, err, converter.ErrInvalidRule)
	assert.ErrorIs(t, err, core.ErrBadFactor)

	err = c.AddConversion(core.Rule{Src: "", Dest: "b", Factor: 1})
	assert.ErrorIs(t, err, converter.ErrInvalidRule)
	assert.ErrorIs(t, err, core.ErrEmptyUnit)

	assert.Empty(t, c.Units())
}

func TestAddConversion_WithoutValidation(t *testing.T) {
	c := newConverter(t, nil, converter.WithoutValidation())
	require.NoError(t, c.AddConversion(core.Rule{Src: "a", Dest: "b", Factor: -2}))
	assert.True(t, c.HasUnit("a"))
}

func TestAddConversion_StrictRedefinition(t *testing.T) {
	c := newConverter(t, lengthRules(), converter.WithStrictRedefinition())

	err := c.AddConversion(core.Rule{Src: "Meter", Dest: "kilometer", Factor: 0.002})
	assert.ErrorIs(t, err, converter.ErrDuplicateRule)

	err = c.AddConversion(core.Rule{Src: "kilometer", Dest: "meter", Factor: 1000})
	assert.ErrorIs(t, err, converter.ErrDuplicateRule)

	require.NoError(t, c.AddConversion(core.Rule{Src: "meter", Dest: "centimeter", Factor: 100}))
}

func TestNew_ReportsRejectedRuleIndex(t *testing.T) {
	_, err := converter.New([]core.Rule{
		{Src: "a", Dest: "b", Factor: 1},
		{Src: "b", Dest: "c", Factor: math.Inf(1)},
	})
	require.ErrorIs(t, err, converter.ErrInvalidRule)
	assert.Contains(t, err.Error(), "rule 1")
}

func TestWithLogger_RecordsRedefinition(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := newConverter(t, lengthRules(), converter.WithLogger(logger))
	require.NoError(t, c.AddConversion(core.Rule{Src: "meter", Dest: "kilometer", Factor: 0.001}))

	assert.Contains(t, buf.String(), "conversion redefined")
	assert.Contains(t, buf.String(), "src=meter")
}

func TestConvert_ConcurrentReaders(t *testing.T) {
	c := newConverter(t, lengthRules())

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if _, err := c.Convert(float64(j), "meter", "mile"); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
