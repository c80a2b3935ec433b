package roles

import (
	"fmt"
	"strings"
)

// Role identifies a position the recruiter screens candidates for.
type Role string

const (
	AIMLEngineer     Role = "ai_ml_engineer"
	FrontendEngineer Role = "frontend_engineer"
	BackendEngineer  Role = "backend_engineer"
)

var order = []Role{AIMLEngineer, FrontendEngineer, BackendEngineer}

var rubrics = map[Role]string{
	AIMLEngineer: `Required Skills:
- Python, PyTorch/TensorFlow
- Machine Learning algorithms and frameworks
- Deep Learning and Neural Networks
- Data preprocessing and analysis
- MLOps and model deployment
- RAG, LLM, Finetuning and Prompt Engineering`,
	FrontendEngineer: `Required Skills:
- React/Vue.js/Angular
- HTML5, CSS3, JavaScript/TypeScript
- Responsive design
- State management
- Frontend testing`,
	BackendEngineer: `Required Skills:
- Python/Java/Node.js
- REST APIs
- Database design and management
- System architecture
- Cloud services (AWS/GCP/Azure)
- Kubernetes, Docker, CI/CD`,
}

// All returns the known roles in display order.
func All() []Role {
	return append([]Role(nil), order...)
}

// Parse validates a role identifier.
func Parse(s string) (Role, error) {
	r := Role(strings.TrimSpace(strings.ToLower(s)))
	if _, ok := rubrics[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Rubric returns the required skills text for the role.
func Rubric(r Role) (string, bool) {
	rubric, ok := rubrics[r]
	return rubric, ok
}

// Title turns "ai_ml_engineer" into "Ai Ml Engineer".
func Title(r Role) string {
	words := strings.Split(string(r), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func (r Role) String() string { return string(r) }
