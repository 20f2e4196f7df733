package document

type ElementKind string

const (
	ElementKindText  ElementKind = "text"
	ElementKindImage ElementKind = "image"
)

// Scale bounds an element may rest at.
const (
	MinScale = 0.2
	MaxScale = 6.0
)

// Transform is the per-element uniform scale and rotation, applied about the element's center.
type Transform struct {
	Scale       float64 `json:"scale"`
	RotationDeg float64 `json:"rotationDeg"`
}

// IdentityTransform is the transform every new element starts with.
func IdentityTransform() Transform {
	return Transform{Scale: 1, RotationDeg: 0}
}

type TextData struct {
	Content    string  `json:"content"`
	FontFamily string  `json:"fontFamily"`
	FontSize   float64 `json:"fontSize"`
	Color      string  `json:"color"`
	// Editable is the direct-edit capability. It is suspended while a pinch is active.
	Editable bool `json:"editable"`
}

type ImageData struct {
	Source string  `json:"source"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element is a placeable object on the canvas. Only the variant named by Kind is meaningful.
// Every field is a value, so copying an Element copies it deeply.
type Element struct {
	ID        string      `json:"id"`
	Kind      ElementKind `json:"kind"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Transform Transform   `json:"transform"`
	Text      TextData    `json:"text,omitzero"`
	Image     ImageData   `json:"image,omitzero"`
}

func (e *Element) IsText() bool { return e.Kind == ElementKindText }

// Snapshot is an immutable copy of the scene used by undo/redo.
type Snapshot struct {
	ProductID string    `json:"productId"`
	Elements  []Element `json:"elements"`
}

// CloneElements returns a deep copy of elems.
func CloneElements(elems []Element) []Element {
	out := make([]Element, len(elems))
	copy(out, elems)
	return out
}

// Product is a printable surface from the catalog.
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// ImageResource is a clipart or custom image that can be placed on the canvas.
type ImageResource struct {
	Image string `json:"image"`
	Name  string `json:"name"`
}

// Resources are the read-only catalog lists supplied when an editor session starts.
type Resources struct {
	WelcomeBackground string          `json:"welcomeBackground,omitempty"`
	EventLogo         string          `json:"eventLogo,omitempty"`
	Products          []Product       `json:"products"`
	Cliparts          []ImageResource `json:"cliparts"`
	CustomImages      []ImageResource `json:"customImages"`
	Colors            []string        `json:"colors"`
	Fonts             []string        `json:"fonts"`
}

// Product looks up a catalog product by id.
func (r *Resources) Product(id string) (Product, bool) {
	for _, p := range r.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// HasFont reports whether font is in the font list.
func (r *Resources) HasFont(font string) bool {
	for _, f := range r.Fonts {
		if f == font {
			return true
		}
	}
	return false
}

// ExportTransform mirrors Transform in the export view.
type ExportTransform struct {
	Scale       float64 `json:"scale"`
	RotationDeg float64 `json:"rotationDeg"`
}

// Bounds is an axis-aligned box in canvas coordinates.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ExportElement is one element of the flattened, read-only scene handed to exporters and
// persisted with saved designs.
type ExportElement struct {
	ID         string          `json:"id"`
	Kind       ElementKind     `json:"kind"`
	Left       float64         `json:"left"`
	Top        float64         `json:"top"`
	Width      float64         `json:"width,omitempty"`
	Height     float64         `json:"height,omitempty"`
	FontSize   float64         `json:"fontSize,omitempty"`
	FontFamily string          `json:"fontFamily,omitempty"`
	Color      string          `json:"color,omitempty"`
	Transform  ExportTransform `json:"transform"`
	Content    string          `json:"content"`
	Bounds     Bounds          `json:"bounds"`
	Matrix     []float64       `json:"matrix"`
}

// ExportView is the ordered, back-to-front scene as seen by an exporter.
type ExportView struct {
	CanvasWidth  float64         `json:"canvasWidth"`
	CanvasHeight float64         `json:"canvasHeight"`
	Product      *Product        `json:"product,omitempty"`
	Elements     []ExportElement `json:"elements"`
}

// DesignRecord is a saved design. Records are appended and never rewritten.
type DesignRecord struct {
	ID          string          `json:"id"`
	ClientName  string          `json:"clientName"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	FileName    string          `json:"fileName,omitempty"`
	Elements    []ExportElement `json:"elements"`
	Timestamp   string          `json:"timestamp"`
}
