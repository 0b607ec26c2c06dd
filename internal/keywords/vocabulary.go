package keywords

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// boundary is any rune that cannot be part of a word. Text start and end count too.
const boundary = `[^\p{L}\p{N}]`

// Vocabulary is an immutable catalog of recognized skills.
// It is safe for concurrent use.
type Vocabulary struct {
	entries  []string
	matchers map[string]*regexp.Regexp
}

// NewVocabulary builds a vocabulary from the provided entries.
// Entries are lowercased and trimmed, empty and duplicate entries are dropped.
func NewVocabulary(entries ...string) *Vocabulary {
	v := &Vocabulary{
		entries:  make([]string, 0, len(entries)),
		matchers: make(map[string]*regexp.Regexp, len(entries)),
	}

	for _, entry := range entries {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		if _, ok := v.matchers[entry]; ok {
			continue
		}

		// QuoteMeta keeps entries like "c++" or "ci/cd" literal.
		v.matchers[entry] = regexp.MustCompile(`(?:^|` + boundary + `)` + regexp.QuoteMeta(entry) + `(?:$|` + boundary + `)`)
		v.entries = append(v.entries, entry)
	}

	sort.Strings(v.entries)

	return v
}

// Extend returns a new vocabulary containing the current entries and the extra ones.
func (v *Vocabulary) Extend(extra ...string) *Vocabulary {
	return NewVocabulary(append(v.Entries(), extra...)...)
}

// Entries returns the sorted vocabulary entries.
func (v *Vocabulary) Entries() []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v.entries))
	copy(out, v.entries)
	return out
}

func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}

func (v *Vocabulary) Has(entry string) bool {
	if v == nil {
		return false
	}
	_, ok := v.matchers[entry]
	return ok
}

// Extract returns the vocabulary entries found in text as whole words or phrases.
// Matching is case-insensitive. Empty text yields an empty set.
func (v *Vocabulary) Extract(text string) Set {
	found := NewSet()
	if v == nil || strings.TrimSpace(text) == "" {
		return found
	}

	lower := strings.ToLower(text)
	for _, entry := range v.entries {
		// Cheap pre-check, the regexp only decides about boundaries.
		if !strings.Contains(lower, entry) {
			continue
		}
		if v.matchers[entry].MatchString(lower) {
			found.Add(entry)
		}
	}

	return found
}

var (
	defaultOnce       sync.Once
	defaultVocabulary *Vocabulary
)

// Default returns the built-in vocabulary.
func Default() *Vocabulary {
	defaultOnce.Do(func() {
		defaultVocabulary = NewVocabulary(DefaultSkills...)
	})
	return defaultVocabulary
}

// Extract is a shortcut for Default().Extract(text).
func Extract(text string) Set {
	return Default().Extract(text)
}

// DefaultSkills is the curated list behind Default.
var DefaultSkills = []string{
	// programming languages
	"python", "java", "javascript", "typescript", "c++", "c#", "ruby", "php",
	"swift", "kotlin", "go", "rust", "scala", "r", "matlab", "sql", "html", "css",

	// data science and ml
	"machine learning", "deep learning", "tensorflow", "pytorch", "keras",
	"scikit-learn", "sklearn", "numpy", "pandas", "scipy", "matplotlib",
	"seaborn", "plotly", "jupyter",

	// big data
	"spark", "hadoop", "hive", "kafka", "flink", "airflow", "databricks",

	// cloud and devops
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "terraform",
	"ansible", "git", "github", "gitlab", "ci/cd", "mlops",

	// databases
	"mysql", "postgresql", "mongodb", "redis", "cassandra", "dynamodb",
	"sqlite", "oracle", "sql server", "nosql",

	// bi
	"tableau", "power bi", "powerbi", "looker", "qlik", "excel", "google sheets",

	// analytics
	"statistics", "statistical analysis", "a/b testing", "hypothesis testing",
	"regression", "classification", "clustering", "time series",

	// soft skills
	"communication", "leadership", "problem solving", "teamwork",
	"collaboration", "analytical", "critical thinking",
}
