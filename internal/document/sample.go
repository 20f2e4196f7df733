package document

// Palette and font list used when the catalog does not provide one.
var (
	DefaultColors = []string{"#000000", "#FFFFFF", "#FF0000"}
	DefaultFonts  = []string{"Roboto", "Montserrat", "Bebas Neue"}
)

// Defaults for newly created elements.
const (
	DefaultText        = "Tu texto"
	DefaultFontSize    = 48.0
	DefaultImageX      = 100.0
	DefaultImageY      = 100.0
	DefaultImageWidth  = 150.0
	DefaultImageHeight = 150.0
)

// Normalize fills missing lists with empty slices and missing palettes with defaults.
func (r *Resources) Normalize() {
	if r.Products == nil {
		r.Products = []Product{}
	}
	if r.Cliparts == nil {
		r.Cliparts = []ImageResource{}
	}
	if r.CustomImages == nil {
		r.CustomImages = []ImageResource{}
	}
	if len(r.Colors) == 0 {
		r.Colors = append([]string(nil), DefaultColors...)
	}
	if len(r.Fonts) == 0 {
		r.Fonts = append([]string(nil), DefaultFonts...)
	}
}

// NewSampleResources returns a small catalog for local development and tests.
func NewSampleResources() *Resources {
	r := &Resources{
		Products: []Product{
			{ID: "tshirt-white", Name: "Camiseta blanca", Image: "/assets/products/tshirt-white.png"},
			{ID: "mug", Name: "Taza", Image: "/assets/products/mug.png"},
		},
		Cliparts: []ImageResource{
			{Image: "/assets/cliparts/star.png", Name: "Star"},
			{Image: "/assets/cliparts/heart.png", Name: "Heart"},
		},
		CustomImages: []ImageResource{
			{Image: "/assets/custom/logo.png", Name: "Logo"},
		},
	}
	r.Normalize()
	return r
}
