package valueobjects

// Category is the coarse career bucket a prompt falls into.
type Category string

const (
	CategoryTech     Category = "Tech Path"
	CategoryCreative Category = "Creative Path"
	CategoryBusiness Category = "Business Path"
	CategoryGeneral  Category = "General Path"
)

// String returns the display form, e.g. "Tech Path".
func (c Category) String() string {
	return string(c)
}
