package classifier

import "github.com/haukened/extguard/internal/ext/domain"

// Denylist answers membership for a canonical extension.
// Implemented by denylist.Set and the layered denylist.Repository.
type Denylist interface {
	Decide(ext string) domain.Decision
}
