package l3phases

import (
	"errors"
	"fmt"
)

// ErrUnknownMovement is returned when a movement type has no analyzer.
var ErrUnknownMovement = errors.New("unknown movement type")

// Movement enumerates the supported movements. The zero value is not a
// valid movement.
type Movement int

const (
	LumbarFlexion Movement = iota + 1
	LumbarExtension
	LumbarSideBend
)

// Movements lists every supported movement in declaration order.
var Movements = []Movement{LumbarFlexion, LumbarExtension, LumbarSideBend}

// String returns the movement slug, e.g. "lumbar_flexion".
func (m Movement) String() string {
	if def, ok := definitions[m]; ok {
		return def.slug
	}
	return fmt.Sprintf("movement(%d)", int(m))
}

// Valid reports whether m has an analyzer.
func (m Movement) Valid() bool {
	_, ok := definitions[m]
	return ok
}

// ActivePhase returns the movement-specific label of the active phase.
func (m Movement) ActivePhase() Phase {
	return definitions[m].active
}

// ParseMovement resolves a movement slug.
func ParseMovement(slug string) (Movement, error) {
	for _, m := range Movements {
		if definitions[m].slug == slug {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMovement, slug)
}

// Phase labels where in a movement cycle the subject currently is.
type Phase string

const (
	PhaseNeutral   Phase = "neutral"
	PhaseReturn    Phase = "return"
	PhaseFlexion   Phase = "flexion"
	PhaseExtension Phase = "extension"
	PhaseSideBend  Phase = "side_bend"
)
