package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/job-match-engine/internal/gap"
)

// Lexicons bundles the data-driven tables the matching core runs on: the
// skill vocabulary, synonym groups, emphasis markers, industry keyword bags,
// and the demand/learning tables for gap analysis. Each table can be
// overridden by a YAML file under the lexicon directory; missing files fall
// back to the compiled-in defaults so a bare checkout still works.
type Lexicons struct {
	Skills          []string
	SynonymGroups   [][]string
	EmphasisMarkers []string
	Industries      map[string][]string
	Demand          map[string]float64
	Learning        map[string]gap.LearningEntry
}

// Lexicon file names looked up under the lexicon directory.
const (
	skillsFile     = "skills.yaml"
	synonymsFile   = "synonyms.yaml"
	industriesFile = "industries.yaml"
	learningFile   = "learning.yaml"
)

type skillsYAML struct {
	Skills          []string `yaml:"skills"`
	EmphasisMarkers []string `yaml:"emphasis_markers"`
}

type synonymsYAML struct {
	Groups [][]string `yaml:"groups"`
}

type industriesYAML struct {
	Industries map[string][]string `yaml:"industries"`
}

type learningYAML struct {
	Demand   map[string]float64           `yaml:"demand"`
	Learning map[string]gap.LearningEntry `yaml:"learning"`
}

// LoadLexicons returns the default tables overridden by whatever YAML files
// exist under dir. A missing directory or file is not an error; a malformed
// file is.
func LoadLexicons(dir string) (Lexicons, error) {
	lex := DefaultLexicons()

	var sk skillsYAML
	if ok, err := readYAML(filepath.Join(dir, skillsFile), &sk); err != nil {
		return Lexicons{}, err
	} else if ok {
		if len(sk.Skills) > 0 {
			lex.Skills = sk.Skills
		}
		if len(sk.EmphasisMarkers) > 0 {
			lex.EmphasisMarkers = sk.EmphasisMarkers
		}
	}

	var syn synonymsYAML
	if ok, err := readYAML(filepath.Join(dir, synonymsFile), &syn); err != nil {
		return Lexicons{}, err
	} else if ok && len(syn.Groups) > 0 {
		lex.SynonymGroups = syn.Groups
	}

	var ind industriesYAML
	if ok, err := readYAML(filepath.Join(dir, industriesFile), &ind); err != nil {
		return Lexicons{}, err
	} else if ok && len(ind.Industries) > 0 {
		lex.Industries = ind.Industries
	}

	var lrn learningYAML
	if ok, err := readYAML(filepath.Join(dir, learningFile), &lrn); err != nil {
		return Lexicons{}, err
	} else if ok {
		if len(lrn.Demand) > 0 {
			lex.Demand = lrn.Demand
		}
		if len(lrn.Learning) > 0 {
			lex.Learning = lrn.Learning
		}
	}

	return lex, nil
}

func readYAML(path string, out any) (bool, error) {
	// #nosec G304 -- lexicon files are deployment-controlled configuration.
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("op=config.LoadLexicons path=%s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("op=config.LoadLexicons path=%s: %w", path, err)
	}
	return true, nil
}

// DefaultLexicons returns the compiled-in tables.
func DefaultLexicons() Lexicons {
	return Lexicons{
		Skills: []string{
			// languages
			"python", "java", "javascript", "typescript", "go", "c++", "c#",
			"ruby", "php", "rust", "kotlin", "swift", "scala", "sql", "r",
			// frameworks
			"react", "angular", "vue", "node.js", "django", "flask", "spring",
			"rails", "express", "fastapi", ".net", "laravel", "next.js",
			// data stores
			"postgresql", "mysql", "mongodb", "redis", "elasticsearch",
			"cassandra", "sqlite", "dynamodb", "kafka", "rabbitmq",
			// cloud / devops
			"aws", "azure", "gcp", "docker", "kubernetes", "terraform",
			"ansible", "jenkins", "git", "ci-cd", "linux", "grafana",
			"prometheus", "helm",
			// broader practice areas
			"machine learning", "deep learning", "data engineering",
			"microservices", "graphql", "grpc", "rest",
		},
		SynonymGroups: [][]string{
			{"go", "golang"},
			{"javascript", "js", "ecmascript"},
			{"typescript", "ts"},
			{"python", "python3"},
			{"postgresql", "postgres"},
			{"kubernetes", "k8s"},
			{"amazon web services", "aws"},
			{"google cloud", "gcp", "google cloud platform"},
			{"machine learning", "ml"},
			{"continuous integration", "ci-cd", "ci cd", "cicd"},
			{"node.js", "nodejs", "node"},
			{"react", "reactjs", "react.js"},
			{"vue", "vuejs", "vue.js"},
			{"c#", "csharp"},
			{"mongodb", "mongo"},
		},
		EmphasisMarkers: []string{
			"required", "must have", "essential", "mandatory", "minimum",
			"key", "core", "necessary", "critical",
		},
		Industries: map[string][]string{
			"technology": {
				"software", "saas", "cloud", "startup", "developer", "api",
				"platform", "data", "engineering", "tech",
			},
			"finance": {
				"bank", "banking", "fintech", "trading", "investment",
				"insurance", "payments", "hedge", "capital", "asset",
			},
			"healthcare": {
				"health", "medical", "hospital", "clinical", "pharma",
				"biotech", "patient", "care", "diagnostics",
			},
		},
		Demand: map[string]float64{
			"python":           0.9,
			"go":               0.8,
			"javascript":       0.85,
			"typescript":       0.85,
			"react":            0.8,
			"aws":              0.85,
			"kubernetes":       0.8,
			"docker":           0.75,
			"postgresql":       0.7,
			"kafka":            0.65,
			"terraform":        0.7,
			"machine learning": 0.85,
			"sql":              0.75,
			"rust":             0.6,
		},
		Learning: map[string]gap.LearningEntry{
			"python":           {Weeks: 6, Resources: []string{"python.org tutorial", "Automate the Boring Stuff", "Real Python"}},
			"go":               {Weeks: 4, Resources: []string{"A Tour of Go", "Go by Example", "Effective Go"}},
			"javascript":       {Weeks: 6, Resources: []string{"MDN JavaScript guide", "javascript.info", "Eloquent JavaScript"}},
			"typescript":       {Weeks: 3, Resources: []string{"TypeScript handbook", "Execute Program"}},
			"react":            {Weeks: 4, Resources: []string{"react.dev tutorial", "Epic React"}},
			"aws":              {Weeks: 8, Resources: []string{"AWS Skill Builder", "AWS Solutions Architect associate prep"}},
			"kubernetes":       {Weeks: 6, Resources: []string{"Kubernetes the Hard Way", "CKA curriculum"}},
			"docker":           {Weeks: 2, Resources: []string{"Docker getting started", "Play with Docker"}},
			"postgresql":       {Weeks: 4, Resources: []string{"PostgreSQL tutorial", "Use the Index, Luke"}},
			"kafka":            {Weeks: 3, Resources: []string{"Kafka quickstart", "Confluent developer courses"}},
			"terraform":        {Weeks: 3, Resources: []string{"HashiCorp Learn", "Terraform up and running"}},
			"machine learning": {Weeks: 12, Resources: []string{"fast.ai", "Andrew Ng's ML specialization"}},
			"graphql":          {Weeks: 2, Resources: []string{"graphql.org tutorial", "How to GraphQL"}},
			"rust":             {Weeks: 10, Resources: []string{"The Rust Book", "Rustlings"}},
		},
	}
}
