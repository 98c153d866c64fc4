package ddf

import (
	"math/rand"
	"testing"

	"wppddf/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToConceptID(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Major area, region, country or area *", "major_area_region_country_or_area"},
		{"Reference date (1 January - 31 December)", "reference_date_1_january_31_december"},
		{"Country code", "country_code"},
		{"  Variant  ", "variant"},
		{"Life Expectancy at Birth", "life_expectancy_at_birth"},
		{"Total population [thousands]", "total_population"},
		{"Crude birth rate\n(per 1,000)", "crude_birth_rate_per_1_000"},
		{`Sex ratio "M/F"; total`, "sex_ratio_m_f_total"},
		{"Net migration rate.", "net_migration_rate"},
		{"already_normal", "already_normal"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ToConceptID(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToConceptIDRejectsEmpty(t *testing.T) {
	for _, label := range []string{"", "   ", "\n", "*", " - ", "[note]"} {
		_, err := ToConceptID(label)
		require.Error(t, err, "label %q", label)
		assert.ErrorIs(t, err, core.ErrEmptyIdentifier)
		assert.True(t, core.IsFormatError(err))
	}
}

func TestToConceptIDIdempotent(t *testing.T) {
	labels := []string{
		"a__", "x [y] z", "a\t[x]", "[x]\ta", "A [b\nc] D", "Deaths (both sexes combined)",
		"Under-five mortality 5q0 (deaths under age five per 1,000 live births)",
		"Population change; natural", "_leading", "TRAILING . . .",
	}

	// widen the sample with random labels over the interesting alphabet
	alphabet := []rune(" ,-./*\";[]()_\t\naZ9é")
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		n := 1 + rng.Intn(12)
		r := make([]rune, n)
		for j := range r {
			r[j] = alphabet[rng.Intn(len(alphabet))]
		}
		labels = append(labels, string(r))
	}

	for _, label := range labels {
		once, err := ToConceptID(label)
		if err != nil {
			continue
		}
		twice, err := ToConceptID(once)
		require.NoError(t, err, "label %q normalized to %q", label, once)
		assert.Equal(t, once, twice, "label %q", label)
		assert.NotRegexp(t, `_$`, once)
	}
}

func FuzzToConceptID(f *testing.F) {
	for _, seed := range []string{"Major area, region, country or area *", "a [b] c", "x__", "Notes"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, label string) {
		once, err := ToConceptID(label)
		if err != nil {
			return
		}
		twice, err := ToConceptID(once)
		if err != nil || twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q (%v)", label, once, twice, err)
		}
	})
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		header string
		name   string
		unit   string
	}{
		{"Life Expectancy at Birth (years)", "Life Expectancy at Birth", "years"},
		{"Total population(thousands)", "Total population", "thousands"},
		{"  Crude death rate   (deaths per 1,000 population) ", "Crude death rate", "deaths per 1,000 population"},
		{"Sex ratio (M/F) (males per 100 females)", "Sex ratio (M/F)", "males per 100 females"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			name, unit, err := ParseHeader(tt.header)
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.unit, unit)
		})
	}
}

func TestParseHeaderRejectsMalformed(t *testing.T) {
	for _, header := range []string{"Total population", "Total population (thousands", "(years)", "Births ()", "Deaths (x) trailing"} {
		_, _, err := ParseHeader(header)
		require.Error(t, err, "header %q", header)
		assert.ErrorIs(t, err, core.ErrBadHeader)
	}
}
