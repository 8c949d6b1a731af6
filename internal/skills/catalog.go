package skills

import "strings"

// Catalog resolves free-text tokens to canonical skill names. Lookups are
// case-insensitive and alias-aware; unknown tokens resolve to "".
type Catalog struct {
	canonical map[string]struct{}
	aliases   map[string]string
}

// defaultSkills is the built-in set of canonical skill names. Multi-word
// names are matched through the extractor's bigram pass.
var defaultSkills = []string{
	"JAVA", "KOTLIN", "GO", "PYTHON", "RUST", "C#", "C++", "SCALA",
	"JAVASCRIPT", "TYPESCRIPT", "REACT", "ANGULAR", "VUE", "NEXT.JS",
	"SPRING", "SPRING BOOT", "QUARKUS", "MICRONAUT", "KTOR",
	"NODE.JS", ".NET", "DJANGO", "FLASK", "RAILS",
	"POSTGRESQL", "MYSQL", "ORACLE", "MONGODB", "REDIS", "ELASTICSEARCH",
	"KAFKA", "RABBITMQ", "GRAPHQL", "REST", "GRPC",
	"DOCKER", "KUBERNETES", "TERRAFORM", "ANSIBLE", "HELM",
	"AWS", "AZURE", "GCP", "OPENSHIFT",
	"LINUX", "GIT", "CI/CD", "JENKINS", "GITHUB ACTIONS",
	"MACHINE LEARNING", "DATA ENGINEERING", "SQL",
	"AGILE", "SCRUM", "ARCHITECTURE", "SECURITY",
}

// defaultAliases maps common spellings to canonical names.
var defaultAliases = map[string]string{
	"GOLANG":      "GO",
	"JS":          "JAVASCRIPT",
	"TS":          "TYPESCRIPT",
	"K8S":         "KUBERNETES",
	"POSTGRES":    "POSTGRESQL",
	"PSQL":        "POSTGRESQL",
	"MONGO":       "MONGODB",
	"SPRINGBOOT":  "SPRING BOOT",
	"NODEJS":      "NODE.JS",
	"NODE":        "NODE.JS",
	"NEXTJS":      "NEXT.JS",
	"DOTNET":      ".NET",
	"REACTJS":     "REACT",
	"ML":          "MACHINE LEARNING",
	"ELASTIC":     "ELASTICSEARCH",
	"GCLOUD":       "GCP",
	"GOOGLE-CLOUD": "GCP",
	"NET":          ".NET",
}

// NewDefaultCatalog builds the built-in catalog.
func NewDefaultCatalog() *Catalog {
	return NewCatalog(defaultSkills, defaultAliases)
}

// NewCatalog builds a catalog from canonical names and an alias table.
// Names and aliases are folded to upper case.
func NewCatalog(names []string, aliases map[string]string) *Catalog {
	c := &Catalog{
		canonical: make(map[string]struct{}, len(names)),
		aliases:   make(map[string]string, len(aliases)),
	}
	for _, n := range names {
		c.canonical[strings.ToUpper(strings.TrimSpace(n))] = struct{}{}
	}
	for alias, target := range aliases {
		c.aliases[strings.ToUpper(strings.TrimSpace(alias))] = strings.ToUpper(strings.TrimSpace(target))
	}
	return c
}

// Resolve normalizes token and returns its canonical skill name, or ""
// when the token is not a known skill.
func (c *Catalog) Resolve(token string) string {
	normalized := strings.ToUpper(strings.TrimSpace(token))
	if normalized == "" {
		return ""
	}
	if target, ok := c.aliases[normalized]; ok {
		normalized = target
	}
	if _, ok := c.canonical[normalized]; ok {
		return normalized
	}
	return ""
}
