package access

import "fmt"

// Role is a closed enumeration of portal role labels. Unknown labels are
// rejected with ParseRole at the authentication boundary so the rest of the
// application only ever sees valid roles.
type Role string

const (
	RolePecheur              Role = "pecheur"
	RoleAgentCollecte        Role = "agent_collecte"
	RoleGestionnaireCoop     Role = "gestionnaire_coop"
	RoleInspecteur           Role = "inspecteur"
	RoleDirectionProvinciale Role = "direction_provinciale"
	RoleDirectionCentrale    Role = "direction_centrale"
	RoleArmateurPI           Role = "armateur_pi"
	RoleObservateurPI        Role = "observateur_pi"
	RoleAnalyste             Role = "analyste"
	RoleMinistre             Role = "ministre"
	RoleAdmin                Role = "admin"
	RoleDGPA                 Role = "dgpa"
	RoleANPA                 Role = "anpa"
	RoleAGASA                Role = "agasa"
	RoleDGMM                 Role = "dgmm"
	RoleOPRAG                Role = "oprag"
	RoleANPN                 Role = "anpn"
)

var validRoles = map[Role]struct{}{
	RolePecheur:              {},
	RoleAgentCollecte:        {},
	RoleGestionnaireCoop:     {},
	RoleInspecteur:           {},
	RoleDirectionProvinciale: {},
	RoleDirectionCentrale:    {},
	RoleArmateurPI:           {},
	RoleObservateurPI:        {},
	RoleAnalyste:             {},
	RoleMinistre:             {},
	RoleAdmin:                {},
	RoleDGPA:                 {},
	RoleANPA:                 {},
	RoleAGASA:                {},
	RoleDGMM:                 {},
	RoleOPRAG:                {},
	RoleANPN:                 {},
}

// ParseRole validates a raw role label coming from storage or a token claim.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := validRoles[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// ParseRoles validates a list of raw labels, failing on the first unknown one.
func ParseRoles(labels []string) ([]Role, error) {
	roles := make([]Role, 0, len(labels))
	for _, l := range labels {
		r, err := ParseRole(l)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}
