package keyboard

const (
	planckRows = 4
	planckCols = 12
)

// PlanckLayerNames are the layers of the stock Planck keymap.
var PlanckLayerNames = []string{"Base", "Lower", "Raise", "Adjust"}

// Planck returns an empty 4x12 layout with the stock layer names.
func Planck() *Layout {
	return PlanckWithNames(PlanckLayerNames)
}

// PlanckWithNames returns an empty 4x12 layout with the given layer names.
func PlanckWithNames(names []string) *Layout {
	return New(planckRows, planckCols, names)
}
