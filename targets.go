package glimmer

// State is one stop of the animation cycle: a name and the shape its
// particles assemble into.
type State struct {
	Name  string
	Shape Shape
}

// Volumetric reports whether the state's shape rotates in 3D.
func (s State) Volumetric() bool {
	return s.Shape != nil && s.Shape.Volumetric()
}

// TargetSet maps state names to their sampled point clouds.
type TargetSet map[string][]Vec3

// BuildTargets samples every state's shape for viewport. Each entry is
// non-empty because the sampler substitutes a fallback for empty shapes.
func BuildTargets(states []State, s *Sampler, viewport Size) TargetSet {
	ts := make(TargetSet, len(states))
	for _, st := range states {
		ts[st.Name] = s.Sample(st.Shape, viewport)
	}
	return ts
}

// Points returns the target list for state, or nil if unknown.
func (ts TargetSet) Points(state string) []Vec3 {
	return ts[state]
}
