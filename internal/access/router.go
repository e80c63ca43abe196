package access

// Destination maps a role to the dashboard path an actor holding that role
// is sent to when a route denies them. Table order is priority order: the
// first entry whose role the actor holds wins.
type Destination struct {
	Role Role   `json:"role"`
	Path string `json:"path"`
}

type Outcome int

const (
	OutcomeLoading Outcome = iota
	OutcomeRender
	OutcomeRedirect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeRender:
		return "render"
	case OutcomeRedirect:
		return "redirect"
	}
	return "unknown"
}

// Decision is the three-state result of a routing check. Path is only set
// when Outcome is OutcomeRedirect.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	Path    string  `json:"path,omitempty"`
}

// Router decides whether an actor may render a guarded route and where to
// send them otherwise. The destination table and default path are injected
// at construction so alternate tables are testable.
type Router struct {
	table       []Destination
	defaultPath string
}

func NewRouter(table []Destination, defaultPath string) *Router {
	return &Router{table: table, defaultPath: defaultPath}
}

// Decide is total over its inputs: every combination of roles, guard and
// loading flag maps to exactly one outcome.
//
// The caller must have already sent unauthenticated actors to the login
// screen; an empty role set only reaches here while the auth state is still
// being fetched, which is the loading outcome.
func (r *Router) Decide(roles []Role, guard []Role, loading bool) Decision {
	if loading && len(roles) == 0 {
		return Decision{Outcome: OutcomeLoading}
	}

	if len(guard) == 0 {
		return Decision{Outcome: OutcomeRender}
	}

	for _, g := range guard {
		for _, have := range roles {
			if g == have {
				return Decision{Outcome: OutcomeRender}
			}
		}
	}

	return Decision{Outcome: OutcomeRedirect, Path: r.Landing(roles)}
}

// Landing walks the destination table in declared order and returns the
// path of the first entry whose role the actor holds, falling back to the
// default path. Also used to pick the dashboard an actor lands on right
// after login.
func (r *Router) Landing(roles []Role) string {
	for _, d := range r.table {
		for _, have := range roles {
			if d.Role == have {
				return d.Path
			}
		}
	}
	return r.defaultPath
}

// DefaultLandingPath is where actors whose roles appear nowhere in the
// destination table are sent.
const DefaultLandingPath = "/dashboard"

// DefaultDestinations returns the production destination table. Ministry
// and admin outrank the directorates, which outrank the agencies, which
// outrank field roles.
func DefaultDestinations() []Destination {
	return []Destination{
		{RoleMinistre, "/minister-dashboard"},
		{RoleAdmin, "/admin"},
		{RoleDirectionCentrale, "/direction-centrale"},
		{RoleDirectionProvinciale, "/direction-provinciale"},
		{RoleDGPA, "/dgpa-dashboard"},
		{RoleANPA, "/anpa-dashboard"},
		{RoleAGASA, "/agasa-dashboard"},
		{RoleDGMM, "/dgmm-dashboard"},
		{RoleOPRAG, "/oprag-dashboard"},
		{RoleANPN, "/anpn-dashboard"},
		{RoleInspecteur, "/inspector-dashboard"},
		{RoleAnalyste, "/analyst-dashboard"},
		{RoleArmateurPI, "/armeur-dashboard"},
		{RoleObservateurPI, "/observer-dashboard"},
		{RoleGestionnaireCoop, "/coop-dashboard"},
		{RoleAgentCollecte, "/agent-dashboard"},
		{RolePecheur, "/fisher-dashboard"},
	}
}
