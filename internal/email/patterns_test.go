package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternsCanonicalOrder(t *testing.T) {
	got := Patterns("Alex", "Chen", "google.com")

	require.Len(t, got, 8)
	assert.Equal(t, []string{
		"alex.chen@google.com",
		"alex@google.com",
		"a.chen@google.com",
		"alexchen@google.com",
		"alex_chen@google.com",
		"achen@google.com",
		"chen.alex@google.com",
		"alex+chen@google.com",
	}, got)
}

func TestFirstDotLastBaseScore(t *testing.T) {
	// alex.chen is the most common convention and carries the highest base.
	assert.Equal(t, 85, baseScores[formFirstDotLast])
	assert.Equal(t, 30, baseScores[formFirstPlusLast])
}

func TestReorderForDomain(t *testing.T) {
	patterns := Patterns("Alex", "Chen", "apple.com")
	got := ReorderForDomain(patterns, "Alex", "Chen", "apple.com")

	// apple.com prefers initial+last, then first_last.
	assert.Equal(t, "achen@apple.com", got[0])
	assert.Equal(t, "alex_chen@apple.com", got[1])
	assert.ElementsMatch(t, patterns, got)
}

func TestReorderForDomainUnknownDomainUnchanged(t *testing.T) {
	patterns := Patterns("Alex", "Chen", "example.org")
	got := ReorderForDomain(patterns, "Alex", "Chen", "example.org")
	assert.Equal(t, patterns, got)
}

func TestScorePatternBoundsAndValidity(t *testing.T) {
	names := [][2]string{
		{"Alex", "Chen"},
		{"Maximiliana", "Vandenberghe-Constantinopoulos"},
		{"J", "K"},
	}
	domains := []string{"google.com", "example.org", "tiny.io", "acme.com"}

	for _, n := range names {
		for _, d := range domains {
			for _, addr := range Patterns(n[0], n[1], d) {
				v := ScorePattern(addr, n[0], n[1], d)
				assert.GreaterOrEqual(t, v.Score, 0, "score floor for %s", addr)
				assert.LessOrEqual(t, v.Score, 95, "score cap for %s", addr)
				assert.Equal(t, v.Score > 50, v.IsValid, "validity for %s", addr)
			}
		}
	}
}

func TestScorePatternEnterpriseBoost(t *testing.T) {
	enterprise := ScorePattern("alex.chen@google.com", "Alex", "Chen", "google.com")
	plain := ScorePattern("alex.chen@acme.com", "Alex", "Chen", "acme.com")

	// Same form and .com suffix; only the enterprise boost differs,
	// though both saturate below the cap check.
	assert.Equal(t, 95, enterprise.Score)
	assert.Equal(t, 95, plain.Score) // 85+10+5 clamps at the cap too
	assert.Equal(t, "High", enterprise.Confidence)
}

func TestScorePatternLengthPenalty(t *testing.T) {
	long := ScorePattern(
		"maximiliana.vandenberghe@acme-industrial-holdings.com",
		"Maximiliana", "Vandenberghe", "acme-industrial-holdings.com")

	short := ScorePattern("m.vand@acme.com", "M", "Vand", "acme.com")
	assert.Less(t, long.Score, short.Score)
}

func TestScorePatternMalformedAddress(t *testing.T) {
	v := ScorePattern("alex+chen@google.com", "Alex", "Chen", "google.com")
	// Plus-form is well-formed but lowest prevalence: 30+10+5+15 = 60.
	assert.Equal(t, 60, v.Score)
	assert.False(t, v.IsValid)

	bad := ScorePattern("alex chen@google", "Alex", "Chen", "google")
	assert.LessOrEqual(t, bad.Score, 40)
}

func TestConfidenceLabels(t *testing.T) {
	assert.Equal(t, "High", confidenceLabel(81))
	assert.Equal(t, "Medium", confidenceLabel(61))
	assert.Equal(t, "Low", confidenceLabel(60))
	assert.Equal(t, "Low", confidenceLabel(0))
}

func TestEngineEnrich(t *testing.T) {
	e := NewEngine()

	got, ok := e.Enrich("Alex Chen", "google.com")
	require.True(t, ok)
	assert.Len(t, got.Patterns, 8)
	assert.True(t, strings.HasSuffix(got.Primary, "@google.com"))
	assert.Positive(t, got.Confidence)
	assert.LessOrEqual(t, got.Confidence, 95)
}

func TestEngineEnrichMiddleNameUsesOuterParts(t *testing.T) {
	e := NewEngine()
	got, ok := e.Enrich("Mary Jane Watson", "acme.com")
	require.True(t, ok)
	assert.Equal(t, "mary.watson@acme.com", got.Patterns[0])
}

func TestEngineEnrichSingleWordName(t *testing.T) {
	e := NewEngine()
	_, ok := e.Enrich("Cher", "acme.com")
	assert.False(t, ok)
}

func TestResolveDomainKnownTable(t *testing.T) {
	tests := map[string]string{
		"Google":     "google.com",
		"google":     "google.com",
		"Meta":       "meta.com",
		"Facebook":   "meta.com",
		"Zoom":       "zoom.us",
		"Square":     "squareup.com",
		"Snap Chat":  "snap.com",
		"Salesforce": "salesforce.com",
	}
	for in, want := range tests {
		assert.Equal(t, want, ResolveDomain(in), "ResolveDomain(%q)", in)
	}
}

func TestResolveDomainFallback(t *testing.T) {
	assert.Equal(t, "acme.com", ResolveDomain("Acme"))
	assert.Equal(t, "globexcorp.com", ResolveDomain("Globex Corp."))
	assert.Equal(t, "stateu.com", ResolveDomain("State U"))
}
