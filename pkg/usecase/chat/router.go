package chat

import "strings"

// Route selects which answer pipeline handles a query.
type Route int

const (
	// RouteGeneral answers with the general assistant prompt, no
	// retrieval.
	RouteGeneral Route = iota
	// RouteGrounded answers from retrieved transcript context.
	RouteGrounded
)

func (r Route) String() string {
	if r == RouteGrounded {
		return "grounded"
	}
	return "general"
}

// DefaultKeyword is the trigger that marks a query as
// transcript-related.
const DefaultKeyword = "meeting"

// Router classifies queries by case-insensitive substring match against
// its trigger keywords. A coarse heuristic rather than semantic intent
// detection; keywords are configurable for other transcript domains.
type Router struct {
	keywords []string
}

func NewRouter(keywords []string) *Router {
	lowered := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" {
			lowered = append(lowered, keyword)
		}
	}
	if len(lowered) == 0 {
		lowered = []string{DefaultKeyword}
	}
	return &Router{keywords: lowered}
}

// Classify is pure and deterministic for a given query.
func (r *Router) Classify(query string) Route {
	lowered := strings.ToLower(query)
	for _, keyword := range r.keywords {
		if strings.Contains(lowered, keyword) {
			return RouteGrounded
		}
	}
	return RouteGeneral
}
