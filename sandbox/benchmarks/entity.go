package benchmarks

import (
	"math"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/inference-sim/evolve-sandbox/sandbox"
)

// EntityPolicy bounds the similarity threshold and n-gram size.
var EntityPolicy = sandbox.Bounds{
	Floats: map[string]sandbox.Range{"threshold": {Min: 0.30, Max: 0.90}},
	Ints:   map[string]sandbox.IntRange{"ngram_n": {Min: 2, Max: 4}},
}

// EntityBudget caps the scoring latency of entity resolution.
var EntityBudget = sandbox.LatencyBudget{MaxLatencyMs: 80}

var baseNames = []string{
	"Michael McKeever",
	"John A Smith",
	"Sara Johnson",
	"Alejandro Martinez",
	"Wei Chen",
	"Fatima Al Zahra",
	"Omar Hassan",
	"Elena Petrova",
	"David Nguyen",
	"Priya Raman",
}

const (
	entityPositivesPerName = 30
	entityNegatives        = 300
)

type namePair struct {
	a, b string
}

// EntityResolution is a synthetic watchlist-matching benchmark: predict
// whether two name records refer to the same entity by thresholding the
// Jaccard similarity of their character n-grams. Quality is F1.
type EntityResolution struct {
	pairs     []namePair
	labels    []bool
	threshold gaussianStep
	ngram     intStep
	now       func() time.Time
}

// NewEntityResolution generates 300 positive pairs (a name against a noisy
// copy of itself) and 300 negative pairs (two different names, one noisy).
func NewEntityResolution() *EntityResolution {
	rng := sandbox.NewPartitionedRNG(sandbox.NewSimulationKey(sandbox.DefaultDatasetSeed)).ForSubsystem(sandbox.SubsystemDataset)

	var pairs []namePair
	var labels []bool
	for _, name := range baseNames {
		for i := 0; i < entityPositivesPerName; i++ {
			pairs = append(pairs, namePair{name, mutateName(rng, name)})
			labels = append(labels, true)
		}
	}
	for i := 0; i < entityNegatives; i++ {
		idx := rng.Perm(len(baseNames))
		pairs = append(pairs, namePair{baseNames[idx[0]], mutateName(rng, baseNames[idx[1]])})
		labels = append(labels, false)
	}

	return &EntityResolution{
		pairs:     pairs,
		labels:    labels,
		threshold: gaussianStep{stdDev: 0.03, bounds: EntityPolicy.Floats["threshold"]},
		ngram:     intStep{lo: -1, hi: 1, bounds: EntityPolicy.Ints["ngram_n"]},
		now:       time.Now,
	}
}

// mutateName applies synthetic record noise: swap first and last tokens,
// drop an interior character, replace spaces with hyphens.
func mutateName(rng *rand.Rand, name string) string {
	tokens := strings.Fields(name)
	if rng.Float64() < 0.4 && len(tokens) >= 2 {
		tokens[0], tokens[len(tokens)-1] = tokens[len(tokens)-1], tokens[0]
	}
	s := []rune(strings.Join(tokens, " "))
	if rng.Float64() < 0.5 && len(s) > 6 {
		idx := 1 + rng.Intn(len(s)-2)
		s = append(s[:idx], s[idx+1:]...)
	}
	out := string(s)
	if rng.Float64() < 0.4 {
		out = strings.ReplaceAll(out, " ", "-")
	}
	return out
}

func (b *EntityResolution) Name() string { return NameEntityResolution }

func (b *EntityResolution) InitialCandidate() sandbox.Candidate {
	return sandbox.NewCandidate(map[string]float64{"threshold": 0.55, "ngram_n": 3})
}

func (b *EntityResolution) Propose(base sandbox.Candidate, seed int64) sandbox.Candidate {
	rng := sandbox.NewRand(seed)
	initial := b.InitialCandidate()
	thr := b.threshold.apply(rng, baseFloat(base, initial, "threshold"))
	n := b.ngram.apply(rng, baseInt(base, initial, "ngram_n"))
	return sandbox.NewCandidate(map[string]float64{"threshold": thr, "ngram_n": float64(n)})
}

// Evaluate predicts a match when similarity >= threshold. A missing threshold
// matches nothing; an invalid n-gram size scores every pair 0.
func (b *EntityResolution) Policy() sandbox.Bounds { return EntityPolicy }

func (b *EntityResolution) Evaluate(c sandbox.Candidate) sandbox.Score {
	threshold, ok := c.Float("threshold")
	if !ok {
		threshold = math.Inf(1)
	}
	n, ok := c.Int("ngram_n")
	if !ok || !EntityPolicy.Ints["ngram_n"].Contains(n) {
		n = 0
	}
	paramsOK := EntityPolicy.Check(c)

	preds := make([]bool, len(b.pairs))
	latency := elapsedMs(b.now, func() {
		for i, p := range b.pairs {
			preds[i] = jaccardCharNgrams(p.a, p.b, n) >= threshold
		}
	})

	return sandbox.Score{
		Quality:      countConfusion(preds, b.labels).f1(),
		LatencyMs:    latency,
		GovernanceOK: sandbox.Gate(paramsOK, EntityBudget.Within(latency)),
	}
}

// normalizeName lowercases and keeps only letters, digits and whitespace.
func normalizeName(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.TrimSpace(sb.String())
}

func ngramSet(s []rune, n int) map[string]struct{} {
	set := make(map[string]struct{}, len(s)-n+1)
	for i := 0; i+n <= len(s); i++ {
		set[string(s[i:i+n])] = struct{}{}
	}
	return set
}

// jaccardCharNgrams is |A∩B| / |A∪B| over the character n-gram sets of the
// normalized strings; 0 when n < 1 or either string is shorter than n.
func jaccardCharNgrams(a, b string, n int) float64 {
	ra, rb := []rune(normalizeName(a)), []rune(normalizeName(b))
	if n < 1 || len(ra) < n || len(rb) < n {
		return 0
	}
	setA, setB := ngramSet(ra, n), ngramSet(rb, n)
	inter := 0
	for g := range setA {
		if _, ok := setB[g]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
