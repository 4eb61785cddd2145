package capabilities

import "context"

// Capability es una acción habilitada según el rol del usuario.
type Capability string

const (
	SubmitApplications Capability = "applications:submit"
	ReviewApplications Capability = "applications:review"
	ManageShelters     Capability = "shelters:manage"
)

type CapabilitiesResolver interface {
	Has(ctx context.Context, role string, c Capability) (bool, error)
	Resolve(ctx context.Context, role string) (map[Capability]bool, error)
}
